package routes

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/committee-portal/app"
	"github.com/avetra/committee-portal/auth"
	"github.com/avetra/committee-portal/config"
	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/service"
	"github.com/avetra/committee-portal/store/sqlstore"
)

const testAdminSecret = "hunter2"

func setupHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	st, err := sqlstore.New(db, "sqlite3")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return Wire(app.App{
		Service: service.New(st),
		Gate:    auth.NewGate(testAdminSecret),
		Config:  config.Config{AdminPassword: testAdminSecret},
	})
}

func multipartBody(t *testing.T, fields map[string]string, photoName string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photoName != "" {
		fw, err := mw.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = fw.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func submit(t *testing.T, h http.Handler, fields map[string]string, photoName string, photo []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, photoName, photo)
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitRegistration(t *testing.T) {
	h := setupHandler(t)

	rec := submit(t, h, map[string]string{
		"name":               "Alice Smith",
		"committee":          "Finance",
		"social_media_links": "https://example.com/alice",
	}, "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID           int    `json:"id"`
		SubmissionID string `json:"submission_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.ID)
	assert.Len(t, body.SubmissionID, model.SubmissionIDLength)
}

func TestSubmitRegistrationMissingFields(t *testing.T) {
	h := setupHandler(t)

	rec := submit(t, h, map[string]string{
		"name":      "   ",
		"committee": "Finance",
	}, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name")

	// nothing persisted
	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	list := httptest.NewRecorder()
	h.ServeHTTP(list, req)
	assert.Contains(t, list.Body.String(), `"total":0`)
}

func TestSubmitRegistrationWithPhotoRoundTrip(t *testing.T) {
	h := setupHandler(t)

	photo := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xCD}, 128)...)
	rec := submit(t, h, map[string]string{
		"name":      "Alice Smith",
		"committee": "Finance",
	}, "alice.png", photo)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		SubmissionID string `json:"submission_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	req := httptest.NewRequest(http.MethodGet, "/api/submissions/"+body.SubmissionID+"/photo", nil)
	got := httptest.NewRecorder()
	h.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "image/png", got.Header().Get("Content-Type"))
	assert.Equal(t, photo, got.Body.Bytes())
}

func TestSubmitRegistrationRejectsBadPhoto(t *testing.T) {
	h := setupHandler(t)

	rec := submit(t, h, map[string]string{
		"name":      "Alice Smith",
		"committee": "Finance",
	}, "alice.gif", []byte("GIF89a..."))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestGetSubmissionNotFound(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions/ZZZZ9999", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSubmissionsFilters(t *testing.T) {
	h := setupHandler(t)

	for _, reg := range []map[string]string{
		{"name": "John Lee", "committee": "Finance"},
		{"name": "MARJORY Stone", "committee": "Technical"},
		{"name": "Ada Perez", "committee": "Finance"},
	} {
		require.Equal(t, http.StatusCreated, submit(t, h, reg, "", nil).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/submissions?committee=Finance", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)

	req = httptest.NewRequest(http.MethodGet, "/api/submissions?name=jo", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"total":2`)

	req = httptest.NewRequest(http.MethodGet, "/api/submissions?limit=1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	req = httptest.NewRequest(http.MethodGet, "/api/submissions?limit=nope", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRequiresSecret(t *testing.T) {
	h := setupHandler(t)

	for _, target := range []string{"/api/admin/stats", "/api/admin/export"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	// wrong secret
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("X-Admin-Secret", "wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// basic auth password also works
	req = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.SetBasicAuth("admin", testAdminSecret)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func adminReq(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Admin-Secret", testAdminSecret)
	return req
}

func TestAdminStats(t *testing.T) {
	h := setupHandler(t)

	require.Equal(t, http.StatusCreated,
		submit(t, h, map[string]string{"name": "Alice", "committee": "Finance"}, "", nil).Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminReq(http.MethodGet, "/api/admin/stats"))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, map[string]int{"Finance": 1}, stats.ByCommittee)
}

func TestAdminExportCSV(t *testing.T) {
	h := setupHandler(t)

	require.Equal(t, http.StatusCreated,
		submit(t, h, map[string]string{"name": "Alice", "committee": "Finance"}, "", nil).Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminReq(http.MethodGet, "/api/admin/export"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "committee_registrations_")

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"id,submission_id,name,committee,social_media_links,email,phone,photo_filename,submission_date",
		lines[0])
}

func TestAdminDelete(t *testing.T) {
	h := setupHandler(t)

	require.Equal(t, http.StatusCreated,
		submit(t, h, map[string]string{"name": "Alice", "committee": "Finance"}, "", nil).Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminReq(http.MethodDelete, "/api/admin/submissions/1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// deleting again reports not found
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, adminReq(http.MethodDelete, "/api/admin/submissions/1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminClearAllRequiresConfirmation(t *testing.T) {
	h := setupHandler(t)

	require.Equal(t, http.StatusCreated,
		submit(t, h, map[string]string{"name": "Alice", "committee": "Finance"}, "", nil).Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminReq(http.MethodDelete, "/api/admin/submissions"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, adminReq(http.MethodDelete, "/api/admin/submissions?confirm=true"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":1`)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	list := httptest.NewRecorder()
	h.ServeHTTP(list, req)
	assert.Contains(t, list.Body.String(), `"total":0`)
}
