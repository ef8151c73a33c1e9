package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/config"
)

// RateLimitedProvider spaces out calls to a provider with a token bucket.
// Callers block until a token is available or ctx ends.
type RateLimitedProvider struct {
	inner   domain.LLMProvider
	limiter *rate.Limiter
}

var _ domain.LLMProvider = (*RateLimitedProvider)(nil)

// NewRateLimitedProvider wraps inner. A non-positive rate returns inner
// unchanged.
func NewRateLimitedProvider(inner domain.LLMProvider, cfg config.RateLimitConfig) domain.LLMProvider {
	if cfg.RequestsPerSecond <= 0 {
		return inner
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// Chat implements domain.LLMProvider.
func (p *RateLimitedProvider) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: provider %q: %v", domain.ErrRateLimit, p.inner.Name(), err)
	}
	return p.inner.Chat(ctx, req)
}

// Name implements domain.LLMProvider.
func (p *RateLimitedProvider) Name() string { return p.inner.Name() }
