package model

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// MaxPhotoBytes bounds uploaded photo size. The registration form has
// always advertised a 5MB limit; the backend now enforces it.
const MaxPhotoBytes = 5 << 20

// ErrUnsupportedMedia is returned when an uploaded photo is not an
// allow-listed image encoding or exceeds MaxPhotoBytes.
var ErrUnsupportedMedia = errors.New("unsupported photo type")

// ValidationError reports a required field that was empty after trimming.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// Submission is one committee-member registration. PhotoFilename and
// PhotoData are only persisted by the relational store.
type Submission struct {
	ID               int       `json:"id"`
	SubmissionID     string    `json:"submission_id"`
	Name             string    `json:"name"`
	Committee        string    `json:"committee"`
	SocialMediaLinks string    `json:"social_media_links,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	PhotoFilename    string    `json:"photo_filename,omitempty"`
	PhotoData        []byte    `json:"-"`
	SubmissionDate   time.Time `json:"submission_date"`
}

// Validate trims all text fields in place and checks the required ones.
// Optional fields accept any text: there is deliberately no email, phone or
// URL format check.
func (s *Submission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Committee = strings.TrimSpace(s.Committee)
	s.SocialMediaLinks = strings.TrimSpace(s.SocialMediaLinks)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.PhotoFilename = strings.TrimSpace(s.PhotoFilename)

	if s.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if s.Committee == "" {
		return &ValidationError{Field: "committee"}
	}
	if len(s.PhotoData) > 0 {
		return ValidatePhoto(s.PhotoFilename, s.PhotoData)
	}
	return nil
}

// HasPhoto reports whether a photo was attached to the submission.
func (s *Submission) HasPhoto() bool {
	return len(s.PhotoData) > 0
}

// ValidatePhoto checks an uploaded photo against the allow-list
// (PNG and JPEG, by extension and by sniffed content type) and the size bound.
func ValidatePhoto(filename string, data []byte) error {
	if len(data) > MaxPhotoBytes {
		return fmt.Errorf("%w: photo exceeds %d bytes", ErrUnsupportedMedia, MaxPhotoBytes)
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png", ".jpg", ".jpeg":
	default:
		return fmt.Errorf("%w: extension %q", ErrUnsupportedMedia, ext)
	}
	switch ct := http.DetectContentType(data); ct {
	case "image/png", "image/jpeg":
	default:
		return fmt.Errorf("%w: content type %q", ErrUnsupportedMedia, ct)
	}
	return nil
}
