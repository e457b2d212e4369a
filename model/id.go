package model

import (
	"crypto/rand"
	"strings"
)

const (
	submissionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// SubmissionIDLength is the length of the external-facing submission code.
	SubmissionIDLength = 8
)

// NewSubmissionID produces an 8-character code over A-Z0-9, each character
// uniformly random. It performs no uniqueness check: the caller must verify
// against the backend and regenerate on collision.
func NewSubmissionID() string {
	var sb strings.Builder
	sb.Grow(SubmissionIDLength)

	buf := make([]byte, 16)
	for sb.Len() < SubmissionIDLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms
			panic("model: reading random bytes: " + err.Error())
		}
		for _, b := range buf {
			// 252 is the largest multiple of len(alphabet) below 256;
			// rejecting bytes above it keeps each character uniform
			if b >= 252 {
				continue
			}
			sb.WriteByte(submissionIDAlphabet[int(b)%len(submissionIDAlphabet)])
			if sb.Len() == SubmissionIDLength {
				break
			}
		}
	}
	return sb.String()
}
