package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama answers /api/embed with one vector per input: [len(input), index].
func fakeOllama(t *testing.T, requests *[]embedRequest) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/embed", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req embedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*requests = append(*requests, req)

		resp := embedResponse{}
		for i, in := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float64{float64(len(in)), float64(i)})
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultBaseURL, s.baseURL)
	assert.Equal(t, "all-minilm", s.ModelName())
	assert.Equal(t, 384, s.Dimensions())
	assert.Equal(t, DefaultBatchSize, s.batchSize)
}

func TestNewEmbeddingService_KnownModelDimensions(t *testing.T) {
	s := NewEmbeddingService(Config{Model: "nomic-embed-text"})
	assert.Equal(t, 768, s.Dimensions())

	s = NewEmbeddingService(Config{Model: "custom", Dimensions: 42})
	assert.Equal(t, 42, s.Dimensions())
}

func TestEmbed(t *testing.T) {
	var requests []embedRequest
	srv := fakeOllama(t, &requests)
	s := NewEmbeddingService(Config{BaseURL: srv.URL})

	vec, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []float32{5, 0}, vec)
	require.Len(t, requests, 1)
	assert.Equal(t, "all-minilm", requests[0].Model)
	assert.Equal(t, []string{"hello"}, requests[0].Input)
}

func TestEmbedBatch_SplitsIntoRequests(t *testing.T) {
	var requests []embedRequest
	srv := fakeOllama(t, &requests)
	s := NewEmbeddingService(Config{BaseURL: srv.URL, BatchSize: 2})

	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})
	require.NoError(t, err)

	require.Len(t, vecs, 5)
	assert.Len(t, requests, 3)
	for i, v := range vecs {
		assert.Equal(t, float32(i+1), v[0], "order preserved across batches")
	}
}

func TestEmbedBatch_Empty(t *testing.T) {
	vecs, err := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:0"}).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewEmbeddingService(Config{BaseURL: srv.URL}).Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer srv.Close()

	_, err := NewEmbeddingService(Config{BaseURL: srv.URL}).Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0 embeddings for 1 inputs")
}

func TestPing(t *testing.T) {
	var requests []embedRequest
	srv := fakeOllama(t, &requests)

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: srv.URL}).Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewEmbeddingService(Config{BaseURL: url}).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama: ping failed")
}
