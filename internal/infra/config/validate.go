package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// listing every problem found.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateLLM(cfg, ve)
	validateSuggest(cfg, ve)
	validateAgent(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

var validProviderTypes = map[string]bool{
	"gemini": true,
	"openai": true,
	"ollama": true,
}

func validateLLM(cfg *Config, ve *ValidationError) {
	if len(cfg.LLM.Providers) == 0 {
		ve.Add("llm.providers must not be empty")
		return
	}

	seen := make(map[string]bool, len(cfg.LLM.Providers))
	for i, p := range cfg.LLM.Providers {
		if p.Name == "" {
			ve.Add("llm.providers[%d].name is required", i)
		} else if seen[p.Name] {
			ve.Add("llm.providers[%d].name %q is duplicated", i, p.Name)
		}
		seen[p.Name] = true

		typ := p.Type
		if typ == "" {
			typ = p.Name
		}
		if !validProviderTypes[typ] {
			ve.Add("llm.providers[%d].type %q is not supported (want gemini, openai, ollama)", i, typ)
		}
		if p.ConnTimeout < 0 || p.RespTimeout < 0 {
			ve.Add("llm.providers[%d] timeouts must be >= 0", i)
		}
	}

	if !seen[cfg.LLM.DefaultProvider] {
		ve.Add("llm.default_provider %q does not match any configured provider", cfg.LLM.DefaultProvider)
	}

	if cfg.LLM.Failover.Enabled {
		for _, fb := range cfg.LLM.Failover.Fallbacks {
			if !seen[fb] {
				ve.Add("llm.failover.fallbacks: unknown provider %q", fb)
			}
		}
	}

	if cfg.LLM.RateLimit.RequestsPerSecond < 0 {
		ve.Add("llm.rate_limit.requests_per_second must be >= 0")
	}
	if cfg.LLM.RateLimit.RequestsPerSecond > 0 && cfg.LLM.RateLimit.Burst <= 0 {
		ve.Add("llm.rate_limit.burst must be > 0 when rate limiting is enabled")
	}
}

func validateSuggest(cfg *Config, ve *ValidationError) {
	if !cfg.Suggest.Enabled {
		return
	}
	if cfg.Suggest.Debounce <= 0 {
		ve.Add("suggest.debounce must be > 0")
	}
	if cfg.Suggest.MinChars < 0 {
		ve.Add("suggest.min_chars must be >= 0")
	}
}

func validateAgent(cfg *Config, ve *ValidationError) {
	if strings.TrimSpace(cfg.Agent.SystemPrompt) == "" {
		ve.Add("agent.system_prompt must not be empty")
	}
	if cfg.Agent.Timeout <= 0 {
		ve.Add("agent.timeout must be > 0")
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is not supported (want text or json)", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter %q is not supported (want stdout or noop)", cfg.Tracer.Exporter)
	}
}
