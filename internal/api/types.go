package api

import "encoding/json"

// ServerConfig is the response of GET /api/config. Providers the server
// does not report are nil.
type ServerConfig struct {
	Ollama   *ProviderDefaults `json:"ollama,omitempty"`
	OpenAI   *ProviderDefaults `json:"openai,omitempty"`
	DeepSeek *ProviderDefaults `json:"deepseek,omitempty"`
}

// ProviderDefaults carries the server-side defaults of one provider.
// APIKeyConfigured is only reported for hosted providers.
type ProviderDefaults struct {
	DefaultModel     string `json:"default_model"`
	APIKeyConfigured *bool  `json:"api_key_configured,omitempty"`
}

// Model is one locally available model
type Model struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

type modelsResponse struct {
	Success bool    `json:"success"`
	Models  []Model `json:"models"`
	Error   string  `json:"error,omitempty"`
}

type previewRequest struct {
	URL string `json:"url"`
}

// URLPreview is the response of POST /api/url-preview
type URLPreview struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Preview string `json:"preview"`
	Length  int    `json:"length"`
}

type previewResponse struct {
	Success bool `json:"success"`
	URLPreview
	Error string `json:"error,omitempty"`
}

// ProviderConfig is the per-provider configuration attached to an extraction
type ProviderConfig struct {
	Model string `json:"model"`
}

// ExtractRequest is the body of POST /api/extract
type ExtractRequest struct {
	Provider  string         `json:"provider"`
	Config    ProviderConfig `json:"config"`
	InputType string         `json:"input_type"`
	Content   string         `json:"content"`
}

// ExtractResult is a successful extraction. Data is kept verbatim.
type ExtractResult struct {
	Data          json.RawMessage `json:"data"`
	Provider      string          `json:"provider"`
	ContentLength int             `json:"content_length"`
}

type extractResponse struct {
	Success bool `json:"success"`
	ExtractResult
	Error string `json:"error,omitempty"`
}

// Health is the response of GET /api/health
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
