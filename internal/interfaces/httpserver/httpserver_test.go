package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynmcp/internal/config"
	"dynmcp/internal/domain/broadcast"
	"dynmcp/internal/domain/datasource"
	"dynmcp/internal/domain/mcpproto"
	"dynmcp/internal/domain/session"
	"dynmcp/internal/domain/xds"
	"dynmcp/internal/infrastructure/outbound"
	"dynmcp/internal/infrastructure/store"
	"dynmcp/internal/interfaces/httpserver/routes/admin"
	"dynmcp/internal/interfaces/httpserver/routes/mcp"
)

type nullStore struct{}

func (nullStore) GetPrefix(ctx context.Context, prefix string) ([]store.KV, error) { return nil, nil }
func (nullStore) Watch(ctx context.Context, prefix string) <-chan store.WatchEvent {
	ch := make(chan store.WatchEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
func (nullStore) Put(ctx context.Context, key, value string) error          { return nil }
func (nullStore) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }
func (nullStore) Delete(ctx context.Context, key string) (bool, error)      { return false, nil }

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Host = "127.0.0.1"
	cfg.App.Port = 0
	cfg.App.APIKey = "k"

	cache := xds.NewMcpCache()
	bus := broadcast.NewBus(16)
	ds := datasource.New(nullStore{}, cache)
	registry := mcpproto.NewRegistry(outbound.NewClient(0))
	sessions := session.NewManager(10, time.Minute)

	srv := NewHTTPServer(cfg,
		mcp.NewMCPRoute(cache, registry, sessions, bus),
		admin.NewAdminRoute(ds, cache, bus),
	)
	srv.setupRoutes()
	return srv
}

func TestHealthzEnvelope(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, "OK", resp.Data)
}

func TestMetricsExposed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminGroupGuarded(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/tds", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/tds", nil)
	req.Header.Set("x-api-key", "k")
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
