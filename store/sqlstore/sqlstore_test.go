package sqlstore

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/committee-portal/config"
	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/store"
)

// unreachableDBConfig points at a port nothing listens on.
func unreachableDBConfig() config.DB {
	return config.DB{
		Driver:   "mysql",
		Host:     "127.0.0.1",
		Port:     1,
		User:     "portal",
		Password: "portal",
		Name:     "portal",
		Timeout:  500 * time.Millisecond,
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)

	s, err := New(db, "sqlite3")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreate(t *testing.T, s *Store, sub *model.Submission) int {
	t.Helper()
	id, err := s.Create(context.Background(), sub)
	require.NoError(t, err)
	return id
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s := setupTestStore(t)

	first := mustCreate(t, s, &model.Submission{
		Name: "Alice Smith", Committee: "Finance", SubmissionID: "AAAA1111",
	})
	second := mustCreate(t, s, &model.Submission{
		Name: "Alice Smith", Committee: "Finance", SubmissionID: "BBBB2222",
	})

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestCreateRoundTripWithPhoto(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	photo := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xAB}, 256)...)
	sub := &model.Submission{
		Name:             "Alice Smith",
		Committee:        "Finance",
		SocialMediaLinks: "https://example.com/alice",
		SubmissionID:     "AAAA1111",
		PhotoFilename:    "alice.png",
		PhotoData:        photo,
	}
	id := mustCreate(t, s, sub)
	assert.False(t, sub.SubmissionDate.IsZero())

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.Equal(t, "Finance", got.Committee)
	assert.Equal(t, "https://example.com/alice", got.SocialMediaLinks)
	assert.Equal(t, "alice.png", got.PhotoFilename)
	assert.Equal(t, photo, got.PhotoData)

	bySid, err := s.GetBySubmissionID(ctx, "AAAA1111")
	require.NoError(t, err)
	assert.Equal(t, id, bySid.ID)
	assert.Equal(t, photo, bySid.PhotoData)
}

func TestDuplicateSubmissionIDEnforcedByMedium(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, &model.Submission{
		Name: "Alice", Committee: "Finance", SubmissionID: "AAAA1111",
	})

	_, err := s.Create(ctx, &model.Submission{
		Name: "Bob", Committee: "Technical", SubmissionID: "AAAA1111",
	})
	assert.ErrorIs(t, err, store.ErrDuplicateSubmissionID)

	// the rejected create left no row behind
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListFilters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, &model.Submission{Name: "John Lee", Committee: "Finance", SubmissionID: "AAAA1111"})
	mustCreate(t, s, &model.Submission{Name: "MARJORY Stone", Committee: "Technical", SubmissionID: "BBBB2222"})
	mustCreate(t, s, &model.Submission{Name: "Ada Perez", Committee: "Finance", SubmissionID: "CCCC3333"})

	finance, err := s.List(ctx, store.Filter{Committee: "Finance"})
	require.NoError(t, err)
	require.Len(t, finance, 2)
	for _, sub := range finance {
		assert.Equal(t, "Finance", sub.Committee)
	}

	none, err := s.List(ctx, store.Filter{Committee: "Fin"})
	require.NoError(t, err)
	assert.Empty(t, none)

	jo, err := s.List(ctx, store.Filter{NameSearch: "jo"})
	require.NoError(t, err)
	require.Len(t, jo, 2)

	limited, err := s.List(ctx, store.Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	s := setupTestStore(t)

	mustCreate(t, s, &model.Submission{Name: "Alice", Committee: "Finance", SubmissionID: "AAAA1111"})
	mustCreate(t, s, &model.Submission{Name: "Bob", Committee: "Finance", SubmissionID: "BBBB2222"})

	subs, err := s.List(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Bob", subs[0].Name)
	assert.Equal(t, "Alice", subs[1].Name)
}

func TestListExcludesPhotoBytes(t *testing.T) {
	s := setupTestStore(t)

	mustCreate(t, s, &model.Submission{
		Name: "Alice", Committee: "Finance", SubmissionID: "AAAA1111",
		PhotoFilename: "alice.png",
		PhotoData:     []byte("\x89PNG\r\n\x1a\n...."),
	})

	subs, err := s.List(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "alice.png", subs[0].PhotoFilename)
	assert.Nil(t, subs[0].PhotoData)
}

func TestDeleteIsIdempotentlyNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := mustCreate(t, s, &model.Submission{
		Name: "Alice", Committee: "Finance", SubmissionID: "AAAA1111",
	})

	require.NoError(t, s.Delete(ctx, id))

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, id), store.ErrNotFound)
}

func TestDeleteAll(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, &model.Submission{Name: "Alice", Committee: "Finance", SubmissionID: "AAAA1111"})
	mustCreate(t, s, &model.Submission{Name: "Bob", Committee: "Technical", SubmissionID: "BBBB2222"})

	n, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	subs, err := s.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCountByCommittee(t *testing.T) {
	s := setupTestStore(t)

	mustCreate(t, s, &model.Submission{Name: "Alice", Committee: "Finance", SubmissionID: "AAAA1111"})
	mustCreate(t, s, &model.Submission{Name: "Bob", Committee: "Finance", SubmissionID: "BBBB2222"})
	mustCreate(t, s, &model.Submission{Name: "Carol", Committee: "Technical", SubmissionID: "CCCC3333"})

	counts, err := s.CountByCommittee(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Finance": 2, "Technical": 1}, counts)
}

func TestPhotosReturnsOnlyRecordsWithPhotos(t *testing.T) {
	s := setupTestStore(t)

	mustCreate(t, s, &model.Submission{
		Name: "Alice", Committee: "Finance", SubmissionID: "AAAA1111",
		PhotoFilename: "alice.png",
		PhotoData:     []byte("\x89PNG\r\n\x1a\n...."),
	})
	mustCreate(t, s, &model.Submission{
		Name: "Bob", Committee: "Technical", SubmissionID: "BBBB2222",
	})

	photos, err := s.Photos(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "AAAA1111", photos[0].SubmissionID)
	assert.Equal(t, "alice.png", photos[0].PhotoFilename)
	assert.NotEmpty(t, photos[0].PhotoData)
}

func TestOpenUnreachableDatabase(t *testing.T) {
	_, err := Open(unreachableDBConfig())
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
