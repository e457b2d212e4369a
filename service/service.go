// Package service orchestrates validation, submission-id generation and
// storage. It is the only component the HTTP handlers and the CLI menus
// depend on, and behaves identically over both backends.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/metrics"
	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/store"
)

// maxIDAttempts bounds submission-id generation retries on collision.
const maxIDAttempts = 3

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// Store exposes the wired backend, mainly for wiring and tests.
func (s *Service) Store() store.Store {
	return s.store
}

type RegisterInput struct {
	Name             string
	Committee        string
	SocialMediaLinks string
	Email            string
	Phone            string
	PhotoFilename    string
	PhotoData        []byte
}

// Register validates the input, generates a unique submission id and
// persists the record. A generated id colliding with a stored one is
// retried with a fresh id, up to maxIDAttempts total attempts.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Submission, error) {
	sub := &model.Submission{
		Name:             in.Name,
		Committee:        in.Committee,
		SocialMediaLinks: in.SocialMediaLinks,
		Email:            in.Email,
		Phone:            in.Phone,
		PhotoFilename:    in.PhotoFilename,
		PhotoData:        in.PhotoData,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		sub.SubmissionID = model.NewSubmissionID()
		_, err := s.store.Create(ctx, sub)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicateSubmissionID) {
			return nil, err
		}
		if attempt >= maxIDAttempts {
			return nil, fmt.Errorf("%w: exhausted %d attempts", store.ErrDuplicateSubmissionID, maxIDAttempts)
		}
		log.Warnf("service.register: submission id collision, retrying (%d/%d)", attempt, maxIDAttempts)
	}

	metrics.Registrations.Inc()
	log.Infof("service.register: %s (%s) -> %s", sub.Name, sub.Committee, sub.SubmissionID)
	return sub, nil
}

func (s *Service) List(ctx context.Context, f store.Filter) ([]model.Submission, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int) (*model.Submission, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetBySubmissionID(ctx context.Context, submissionID string) (*model.Submission, error) {
	return s.store.GetBySubmissionID(ctx, submissionID)
}

func (s *Service) Remove(ctx context.Context, id int) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.Deletions.Inc()
	return nil
}

// ClearAll removes every record and returns how many were removed. Callers
// are expected to gate this behind an explicit confirmation step.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	metrics.Deletions.Add(float64(n))
	log.Infof("service.clear_all: removed %d records", n)
	return n, nil
}

type Stats struct {
	Total           int            `json:"total_records"`
	ByCommittee     map[string]int `json:"committee_stats"`
	RecentLast7Days int            `json:"recent_records"`
	WithSocialMedia int            `json:"with_social_media"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	byCommittee, err := s.store.CountByCommittee(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := s.store.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -7)
	stats := &Stats{Total: total, ByCommittee: byCommittee}
	for _, sub := range subs {
		if sub.SubmissionDate.After(cutoff) {
			stats.RecentLast7Days++
		}
		if sub.SocialMediaLinks != "" {
			stats.WithSocialMedia++
		}
	}
	return stats, nil
}

// ExportPhotos writes every stored photo to dir as
// <submission_id>_<name><ext>, with the name reduced to filesystem-safe
// characters. It fails when the backend has no photo support.
func (s *Service) ExportPhotos(ctx context.Context, dir string) (int, error) {
	exporter, ok := s.store.(store.PhotoExporter)
	if !ok {
		return 0, errors.New("active backend does not store photos")
	}

	subs, err := exporter.Photos(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	written := 0
	for _, sub := range subs {
		ext := filepath.Ext(sub.PhotoFilename)
		if ext == "" {
			ext = ".jpg"
		}
		name := fmt.Sprintf("%s_%s%s", sub.SubmissionID, safeFilename(sub.Name), ext)
		if err := os.WriteFile(filepath.Join(dir, name), sub.PhotoData, 0o644); err != nil {
			return written, err
		}
		written++
	}
	log.Infof("service.export_photos: wrote %d files to %s", written, dir)
	return written, nil
}

func safeFilename(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}
