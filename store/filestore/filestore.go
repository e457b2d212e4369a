// Package filestore persists submissions as a single JSON document on the
// local filesystem. The whole collection is the unit of persistence: every
// mutation loads the file, applies the change in memory and atomically
// replaces the file.
//
// The store is safe for concurrent use within one process. It is NOT safe
// for concurrent multi-process access: two processes racing on the same
// file resolve as last writer wins.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/store"
)

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing JSON document.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Columns() []string {
	return []string{
		"id", "submission_id", "name", "committee",
		"social_media_links", "email", "phone", "submission_date",
	}
}

func (s *Store) load() ([]model.Submission, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []model.Submission{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var subs []model.Submission
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", store.ErrUnavailable, s.path, err)
	}
	return subs, nil
}

// save writes the full collection to a temporary file in the target
// directory and renames it over the target, so a crash mid-write never
// leaves a truncated document.
func (s *Store) save(subs []model.Submission) error {
	raw, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".registrations-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, sub *model.Submission) (int, error) {
	if sub.HasPhoto() || sub.PhotoFilename != "" {
		// this backend has no binary support; reject rather than drop
		return 0, fmt.Errorf("%w: file store does not support photos", model.ErrUnsupportedMedia)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load()
	if err != nil {
		return 0, err
	}

	maxID := 0
	for _, r := range subs {
		if r.SubmissionID == sub.SubmissionID {
			return 0, store.ErrDuplicateSubmissionID
		}
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	sub.ID = maxID + 1
	sub.SubmissionDate = time.Now()

	subs = append(subs, *sub)
	if err := s.save(subs); err != nil {
		return 0, err
	}
	return sub.ID, nil
}

func (s *Store) List(ctx context.Context, f store.Filter) ([]model.Submission, error) {
	s.mu.Lock()
	subs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]model.Submission, 0, len(subs))
	needle := strings.ToLower(f.NameSearch)
	for _, r := range subs {
		if f.Committee != "" && r.Committee != f.Committee {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmissionDate.Equal(out[j].SubmissionDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubmissionDate.After(out[j].SubmissionDate)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int) (*model.Submission, error) {
	s.mu.Lock()
	subs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetBySubmissionID(ctx context.Context, submissionID string) (*model.Submission, error) {
	s.mu.Lock()
	subs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].SubmissionID == submissionID {
			return &subs[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load()
	if err != nil {
		return err
	}
	for i := range subs {
		if subs[i].ID == id {
			subs = append(subs[:i], subs[i+1:]...)
			return s.save(subs)
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.load()
	if err != nil {
		return 0, err
	}
	if err := s.save([]model.Submission{}); err != nil {
		return 0, err
	}
	return len(subs), nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	subs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

func (s *Store) CountByCommittee(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	subs, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range subs {
		counts[r.Committee]++
	}
	return counts, nil
}

func (s *Store) Close() error {
	return nil
}
