package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sarrajlassi/jobanalyzer/internal/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0, zerolog.Nop()), srv
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:5000/", 30*time.Second, zerolog.Nop())

	assert.Equal(t, "http://localhost:5000", client.BaseURL())
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestConfig(t *testing.T) {
	client, _ := newTestClient(t)

	cfg, err := client.Config(context.Background())
	require.NoError(t, err)

	require.NotNil(t, cfg.Ollama)
	assert.Equal(t, "llama2", cfg.Ollama.DefaultModel)
	assert.Nil(t, cfg.Ollama.APIKeyConfigured)

	require.NotNil(t, cfg.OpenAI)
	require.NotNil(t, cfg.OpenAI.APIKeyConfigured)
	assert.True(t, *cfg.OpenAI.APIKeyConfigured)

	require.NotNil(t, cfg.DeepSeek)
	require.NotNil(t, cfg.DeepSeek.APIKeyConfigured)
	assert.False(t, *cfg.DeepSeek.APIKeyConfigured)
}

func TestConfigPartial(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Reply(apitest.PathConfig, http.StatusOK, map[string]any{"openai": map[string]any{"default_model": "gpt-4o"}})

	cfg, err := client.Config(context.Background())
	require.NoError(t, err)

	assert.Nil(t, cfg.Ollama)
	assert.Nil(t, cfg.DeepSeek)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.DefaultModel)
}

func TestModels(t *testing.T) {
	client, srv := newTestClient(t)

	models, err := client.Models(context.Background())
	require.NoError(t, err)

	require.Len(t, models, 2)
	assert.Equal(t, "mistral:7b", models[0].Name)
	assert.Equal(t, int64(4113301824), models[0].Size)
	assert.Equal(t, "2024-05-01T10:00:00Z", models[0].ModifiedAt)

	reqs := srv.Requests(apitest.PathModels)
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0])
}

func TestModelsEmptyList(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Reply(apitest.PathModels, http.StatusOK, map[string]any{"success": true, "models": nil})

	models, err := client.Models(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, models)
	assert.Empty(t, models)
}

func TestModelsBackendError(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Fail(apitest.PathModels, "Error fetching Ollama models: connection refused")

	_, err := client.Models(context.Background())
	require.Error(t, err)

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusBadRequest, backendErr.StatusCode)
	assert.Equal(t, "Error fetching Ollama models: connection refused", err.Error())
}

func TestPreviewURL(t *testing.T) {
	client, srv := newTestClient(t)

	preview, err := client.PreviewURL(context.Background(), "https://jobs.example.com/123")
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer - Acme", preview.Title)
	assert.Equal(t, "https://jobs.example.com/123", preview.URL)
	assert.Equal(t, 2048, preview.Length)

	reqs := srv.Requests(apitest.PathPreview)
	require.Len(t, reqs, 1)
	assert.Equal(t, "https://jobs.example.com/123", reqs[0]["url"])
}

func TestExtract(t *testing.T) {
	client, srv := newTestClient(t)

	ctx := WithRequestID(context.Background(), "req-42")
	result, err := client.Extract(ctx, ExtractRequest{
		Provider:  "ollama",
		Config:    ProviderConfig{Model: "llama2"},
		InputType: "text",
		Content:   "Senior Go Engineer at Acme",
	})
	require.NoError(t, err)

	assert.Equal(t, "ollama", result.Provider)
	assert.Equal(t, 1234, result.ContentLength)
	assert.JSONEq(t, `{"jobTitle":"Senior Go Engineer","company":"Acme","location":"Remote"}`, string(result.Data))

	reqs := srv.Requests(apitest.PathExtract)
	require.Len(t, reqs, 1)
	assert.Equal(t, "ollama", reqs[0]["provider"])
	assert.Equal(t, map[string]any{"model": "llama2"}, reqs[0]["config"])
	assert.Equal(t, "text", reqs[0]["input_type"])
	assert.Equal(t, "Senior Go Engineer at Acme", reqs[0]["content"])
	assert.Equal(t, "req-42", reqs[0]["_request_id"])
}

func TestExtractSuccessFalse(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Reply(apitest.PathExtract, http.StatusOK, map[string]any{"success": false, "error": "No content to analyze"})

	_, err := client.Extract(context.Background(), ExtractRequest{Provider: "openai", InputType: "text", Content: "x"})

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusOK, backendErr.StatusCode)
	assert.Equal(t, "No content to analyze", err.Error())
}

func TestNonJSONFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, zerolog.Nop())
	_, err := client.Extract(context.Background(), ExtractRequest{})

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "HTTP 502", err.Error())
}

func TestUndecodableSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, zerolog.Nop())
	_, err := client.Config(context.Background())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "load config", netErr.Op)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, 0, zerolog.Nop())
	_, err := client.Health(context.Background())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Contains(t, err.Error(), "health check")
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t)

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
}

func TestContextCancel(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Hold()
	t.Cleanup(srv.Release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Models(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
