// Package store defines the capability set shared by the two persistence
// backends: the relational store (sqlstore) and the flat-file store
// (filestore).
package store

import (
	"context"
	"errors"

	"github.com/avetra/committee-portal/model"
)

var (
	// ErrNotFound is returned for operations on a nonexistent record.
	ErrNotFound = errors.New("submission not found")
	// ErrDuplicateSubmissionID is returned when a generated submission code
	// collides with a persisted one. The service retries with a fresh code.
	ErrDuplicateSubmissionID = errors.New("duplicate submission id")
	// ErrUnavailable wraps failures to reach the underlying medium.
	ErrUnavailable = errors.New("storage unavailable")
)

// Filter narrows List results. Committee is an exact match, NameSearch a
// case-insensitive substring match. Limit 0 means no limit.
type Filter struct {
	Committee  string
	NameSearch string
	Limit      int
}

// Store is implemented by both backends. Create assigns ID and
// SubmissionDate on the passed submission. List returns records most recent
// first.
type Store interface {
	Create(ctx context.Context, sub *model.Submission) (int, error)
	List(ctx context.Context, f Filter) ([]model.Submission, error)
	Get(ctx context.Context, id int) (*model.Submission, error)
	GetBySubmissionID(ctx context.Context, submissionID string) (*model.Submission, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	CountByCommittee(ctx context.Context) (map[string]int, error)
	Close() error
}

// PhotoExporter is implemented by backends that persist photo attachments.
type PhotoExporter interface {
	Photos(ctx context.Context) ([]model.Submission, error)
}

// ColumnLister exposes the persisted column names of a backend, used to
// shape CSV export headers.
type ColumnLister interface {
	Columns() []string
}
