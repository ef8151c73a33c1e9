package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/config"
)

// Local models load slowly on first use, so the response timeout is long.
const (
	ollamaDefaultBaseURL     = "http://localhost:11434"
	ollamaDefaultConnTimeout = 5 * time.Second
	ollamaDefaultRespTimeout = 300 * time.Second
)

// OllamaProvider talks to a local Ollama server through its
// OpenAI-compatible /v1 endpoint.
type OllamaProvider struct {
	*OpenAIProvider
	nativeURL string
}

var _ domain.LLMProvider = (*OllamaProvider)(nil)

// NewOllamaProvider creates an Ollama provider. BaseURL is the native
// server address, without /v1.
func NewOllamaProvider(cfg config.ProviderConfig, logger *slog.Logger) *OllamaProvider {
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = ollamaDefaultConnTimeout
	}
	if cfg.RespTimeout == 0 {
		cfg.RespTimeout = ollamaDefaultRespTimeout
	}
	nativeURL := strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/v1")
	if nativeURL == "" {
		nativeURL = ollamaDefaultBaseURL
	}

	inner := cfg
	inner.BaseURL = nativeURL + "/v1"
	inner.APIKey = ""

	return &OllamaProvider{
		OpenAIProvider: NewOpenAIProvider(inner, logger),
		nativeURL:      nativeURL,
	}
}

// IsHealthy reports whether the Ollama server answers on its root URL.
func (p *OllamaProvider) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.nativeURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
