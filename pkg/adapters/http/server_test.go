package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/pkg/adapters/memory"
	"github.com/aretw0/mutagraph/pkg/observability"
	"github.com/aretw0/mutagraph/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingGenerator always fails to generate.
type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, size int) (*mutagraph.Result, error) {
	return nil, errors.New("engine down")
}
func (failingGenerator) LastGenerated() ports.Graph { return nil }

func newTestHandler(t *testing.T, opts ...mutagraph.Option) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	opts = append([]mutagraph.Option{
		mutagraph.WithSeed(10),
		mutagraph.WithTraceStore(store),
		mutagraph.WithMetrics(metrics),
	}, opts...)

	handler := NewHandler(&Server{
		Generator:   mutagraph.New(opts...),
		Store:       store,
		Gatherer:    reg,
		DefaultSize: 5,
	})
	return handler, store
}

func generate(t *testing.T, handler http.Handler, body string) GenerateResponse {
	t.Helper()
	req := httptest.NewRequest("POST", "/generate", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestGenerate(t *testing.T) {
	handler, _ := newTestHandler(t)

	resp := generate(t, handler, `{"size": 12}`)
	assert.Equal(t, 12, resp.Size)
	assert.Equal(t, uint64(10), resp.Seed)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 13, strings.Count(resp.Trace, "\n"))

	resp = generate(t, handler, "")
	assert.Equal(t, 5, resp.Size, "empty body uses the default size")
}

func TestGenerate_BadRequests(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, body := range []string{`{"size": -2}`, `{"size": "big"}`, `{`} {
		req := httptest.NewRequest("POST", "/generate", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestGenerate_Failure(t *testing.T) {
	handler := NewHandler(&Server{Generator: failingGenerator{}, Gatherer: prometheus.NewRegistry()})

	req := httptest.NewRequest("POST", "/generate", strings.NewReader(`{"size": 1}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "engine down")
}

func TestTraces(t *testing.T) {
	handler, _ := newTestHandler(t)
	resp := generate(t, handler, `{"size": 3}`)

	req := httptest.NewRequest("GET", "/traces", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var keyspaces []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&keyspaces))
	assert.Equal(t, []string{resp.Keyspace}, keyspaces)

	req = httptest.NewRequest("GET", "/traces/"+resp.Keyspace, nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resp.Trace, w.Body.String())

	req = httptest.NewRequest("DELETE", "/traces/"+resp.Keyspace, nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest("GET", "/traces/"+resp.Keyspace, nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTraces_NoStore(t *testing.T) {
	handler := NewHandler(&Server{Generator: mutagraph.New(), Gatherer: prometheus.NewRegistry()})

	req := httptest.NewRequest("GET", "/traces", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestGraph(t *testing.T) {
	tests := []struct {
		name     string
		open     bool
		wantCode int
	}{
		{"open graph", true, http.StatusOK},
		{"closed graph", false, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler(t, mutagraph.WithOpen(tt.open))

			req := httptest.NewRequest("GET", "/graph.mmd", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusNotFound, w.Code, "nothing generated yet")

			generate(t, handler, `{"size": 8}`)

			w = httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/graph.mmd", nil))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.True(t, strings.HasPrefix(w.Body.String(), "graph BT\n"))
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)
	generate(t, handler, `{"size": 4}`)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mutagraph_generations_total")
	assert.Contains(t, w.Body.String(), "mutagraph_mutations_applied_total")
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("OPTIONS", "/generate", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
