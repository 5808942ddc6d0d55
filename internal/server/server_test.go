package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/Xunop/e-library/internal/api/v1"
	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/notify"
	"github.com/Xunop/e-library/internal/storage"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/store/db"
	"github.com/Xunop/e-library/internal/version"
)

type brokenDB struct{}

func (brokenDB) Ping() error { return errors.New("database is closed") }

func newTestHandler(t *testing.T) (*v1.Handler, *store.Store) {
	t.Helper()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "e-library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(context.Background()))

	s := store.NewStore(d.DB)
	return v1.NewHandler(s, lending.NewService(s), storage.NewLocalStorage(t.TempDir(), 75), notify.NewHub()), s
}

func TestHealthcheckAndVersion(t *testing.T) {
	handler, s := newTestHandler(t)
	router, err := setupHandler(context.Background(), handler, s)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, version.GetCurrentVersion(), w.Body.String())
}

func TestHealthcheckReportsDatabaseFailure(t *testing.T) {
	handler, _ := newTestHandler(t)
	router, err := setupHandler(context.Background(), handler, brokenDB{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAPIResponsesAreCompressed(t *testing.T) {
	handler, _ := newTestHandler(t)
	router, err := setupHandler(context.Background(), handler, brokenDB{})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	r.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
}
