package pathao

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.PathaoCity{},
		&models.PathaoZone{},
		&models.PathaoStore{},
		&models.PathaoToken{},
	))
	return db
}

// courierServer is a fake Pathao API with a per-path hit counter.
type courierServer struct {
	*httptest.Server
	mux  *http.ServeMux
	hits atomic.Int64
}

func newCourierServer(t *testing.T) *courierServer {
	t.Helper()
	s := &courierServer{mux: http.NewServeMux()}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *courierServer) handle(path string, h http.HandlerFunc) {
	s.mux.HandleFunc(path, h)
}

func (s *courierServer) requestCount() int64 {
	return s.hits.Load()
}

func newTestClient(t *testing.T, db *gorm.DB, srv *courierServer) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:      srv.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Username:     "merchant@example.com",
		Password:     "hunter2",
	}, db)
}

func seedToken(t *testing.T, db *gorm.DB, access, refresh string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.PathaoToken{
		Provider:     providerKey,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}).Error)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}
