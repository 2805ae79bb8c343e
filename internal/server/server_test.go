package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/objectgraph/internal/config"
	"github.com/dbsmedya/objectgraph/internal/discovery"
	"github.com/dbsmedya/objectgraph/internal/logger"
	"github.com/dbsmedya/objectgraph/internal/schema"
	"github.com/dbsmedya/objectgraph/internal/types"
)

// ============================================================================
// Test Helpers
// ============================================================================

// fakeStore serves discovery lookups and backend calls from fixed records.
type fakeStore struct {
	docs map[types.NodeKey]map[string]interface{}
	err  error // returned by every call when set
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[types.NodeKey]map[string]interface{}{
		{Type: "adunit", ID: "1"}:    {"id": "1", "name": "Banner", "site_id": "10"},
		{Type: "site", ID: "10"}:     {"id": "10", "name": "News", "account_id": "100"},
		{Type: "account", ID: "100"}: {"id": "100", "name": "Acme"},
	}}
}

func (f *fakeStore) ScalarRef(_ context.Context, key types.NodeKey, field string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	doc, ok := f.docs[key]
	if !ok {
		return "", false, nil
	}
	id, ok := types.ToID(doc[field])
	return id, ok, nil
}

func (f *fakeStore) CollectionRef(context.Context, types.NodeKey, string) ([]string, error) {
	return nil, f.err
}

func (f *fakeStore) Summary(_ context.Context, key types.NodeKey) (types.Summary, error) {
	if f.err != nil {
		return types.Summary{}, f.err
	}
	doc, ok := f.docs[key]
	if !ok {
		return types.Summary{}, types.ErrNotFound
	}
	return types.Summary{Name: types.ToOptional(doc["name"])}, nil
}

func (f *fakeStore) ReferencedBy(_ context.Context, fromType, field, id string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []string
	for key, doc := range f.docs {
		if v, ok := types.ToID(doc[field]); key.Type == fromType && ok && v == id {
			ids = append(ids, key.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) ListTypes(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"account", "adunit", "site"}, nil
}

func (f *fakeStore) Object(_ context.Context, key types.NodeKey) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, key)
	}
	return doc, nil
}

func (f *fakeStore) Ping(context.Context) error {
	return f.err
}

func newTestServer(t *testing.T, store *fakeStore) *Server {
	t.Helper()

	g := schema.NewGraph([]schema.Edge{
		{From: "adunit", To: "site"},
		{From: "site", To: "account"},
	})
	b, err := discovery.NewBuilder(g, nil, store)
	require.NoError(t, err)
	b.SetLogger(logger.NewNop())

	cfg := config.DefaultConfig()
	s, err := New(Config{
		Builder:   b,
		Backend:   store,
		Server:    cfg.Server,
		Traversal: cfg.Traversal,
		Logger:    logger.NewNop(),
	})
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

// ============================================================================
// New Tests
// ============================================================================

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{Backend: newFakeStore()})
	assert.Error(t, err)

	b, err := discovery.NewBuilder(schema.NewGraph(nil), nil, newFakeStore())
	require.NoError(t, err)
	_, err = New(Config{Builder: b})
	assert.Error(t, err)
}

// ============================================================================
// getNetwork Tests
// ============================================================================

func TestGetNetwork(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	rec, body := get(t, s, "/api/getNetwork?type=adunit&id=1&depth_limit=5&object_limit=10")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, true, body["success"])
	output := body["output"].(map[string]interface{})
	require.Len(t, output, 3)

	seed := output["0"].(map[string]interface{})
	assert.Equal(t, "adunit", seed["type"])
	assert.Equal(t, "1", seed["id"])
	assert.Equal(t, "Banner", seed["name"])
	assert.Empty(t, seed["pointers_from"])

	site := output["1"].(map[string]interface{})
	assert.Equal(t, "site", site["type"])
	assert.Equal(t, []interface{}{float64(0)}, site["pointers_from"])

	assert.NotEmpty(t, body["queries"])
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["nodes_found"])
}

func TestGetNetwork_DepthFirstWithLimit(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	rec, body := get(t, s, "/api/getNetwork?type=adunit&id=1&strategy=dfs&object_limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, body["output"], 2)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, true, stats["limit_reached"])
}

func TestGetNetwork_BadRequest(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	tests := []string{
		"/api/getNetwork?id=1",
		"/api/getNetwork?type=adunit",
		"/api/getNetwork?type=adunit&id=1&depth_limit=abc",
		"/api/getNetwork?type=adunit&id=1&depth_limit=-1",
		"/api/getNetwork?type=adunit&id=1&object_limit=0",
		"/api/getNetwork?type=adunit&id=1&object_limit=1000000",
		"/api/getNetwork?type=adunit&id=1&strategy=random",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rec, body := get(t, s, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, errTypeBadRequest, body["error"].(map[string]interface{})["type"])
		})
	}
}

func TestGetNetwork_SeedNotFound(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	rec, body := get(t, s, "/api/getNetwork?type=adunit&id=404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errTypeNotFound, body["error"].(map[string]interface{})["type"])
}

func TestGetNetwork_BackendUnavailable(t *testing.T) {
	store := newFakeStore()
	store.err = fmt.Errorf("%w: connection refused", types.ErrBackendUnavailable)
	s := newTestServer(t, store)

	rec, body := get(t, s, "/api/getNetwork?type=adunit&id=1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, body["success"])

	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "BackendUnavailable", errBody["type"])
	assert.Contains(t, errBody["message"], "connection refused")
	assert.Nil(t, body["output"])
}

// ============================================================================
// Other Endpoint Tests
// ============================================================================

func TestGetTypes(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	rec, body := get(t, s, "/api/getTypes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"account", "adunit", "site"}, body["types"])
}

func TestGetObjectInfo(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	rec, body := get(t, s, "/api/getObjectInfo?type=site&id=10")
	require.Equal(t, http.StatusOK, rec.Code)
	object := body["object"].(map[string]interface{})
	assert.Equal(t, "News", object["name"])

	rec, _ = get(t, s, "/api/getObjectInfo?type=site&id=11")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, s, "/api/getObjectInfo?type=site")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerify(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(t, store)

	rec, body := get(t, s, "/api/verify")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	store.err = fmt.Errorf("dial tcp: connection refused")
	rec, body = get(t, s, "/api/verify")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "BackendUnavailable", body["error"].(map[string]interface{})["type"])
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	rec, _ := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	get(t, s, "/api/getNetwork?type=adunit&id=1")

	rec, _ = get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "objectgraph_http_requests_total")
	assert.Contains(t, rec.Body.String(), "objectgraph_discovery_runs_total")
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		errType string
	}{
		{types.ErrBackendUnavailable, http.StatusServiceUnavailable, errTypeBackendUnavailable},
		{types.ErrSeedNotFound, http.StatusNotFound, errTypeNotFound},
		{types.ErrUnknownType, http.StatusNotFound, errTypeNotFound},
		{types.ErrInvalidLimit, http.StatusBadRequest, errTypeBadRequest},
		{context.Canceled, http.StatusServiceUnavailable, errTypeCanceled},
		{fmt.Errorf("boom"), http.StatusInternalServerError, errTypeInternal},
	}

	for _, tt := range tests {
		status, errType := errorStatus(fmt.Errorf("wrapped: %w", tt.err))
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.errType, errType, tt.err.Error())
	}
}

// ============================================================================
// Lifecycle Tests
// ============================================================================

func TestServeListener_GracefulShutdown(t *testing.T) {
	s := newTestServer(t, newFakeStore())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
