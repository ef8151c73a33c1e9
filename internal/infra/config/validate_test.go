package config

import (
	"strings"
	"testing"
)

func TestValidateDefaultsPass(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("Defaults should pass validation: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no providers", func(c *Config) { c.LLM.Providers = nil }, "llm.providers must not be empty"},
		{"unknown default", func(c *Config) { c.LLM.DefaultProvider = "nope" }, `llm.default_provider "nope"`},
		{"bad type", func(c *Config) { c.LLM.Providers[0].Type = "anthropic" }, "is not supported"},
		{"duplicate name", func(c *Config) {
			c.LLM.Providers = append(c.LLM.Providers, c.LLM.Providers[0])
		}, "is duplicated"},
		{"unknown fallback", func(c *Config) {
			c.LLM.Failover.Enabled = true
			c.LLM.Failover.Fallbacks = []string{"ghost"}
		}, `unknown provider "ghost"`},
		{"burst zero", func(c *Config) { c.LLM.RateLimit.Burst = 0 }, "llm.rate_limit.burst"},
		{"debounce zero", func(c *Config) { c.Suggest.Debounce = 0 }, "suggest.debounce must be > 0"},
		{"empty prompt", func(c *Config) { c.Agent.SystemPrompt = "  " }, "agent.system_prompt"},
		{"agent timeout", func(c *Config) { c.Agent.Timeout = 0 }, "agent.timeout must be > 0"},
		{"log format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"tracer exporter", func(c *Config) {
			c.Tracer.Enabled = true
			c.Tracer.Exporter = "jaeger"
		}, "tracer.exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateSuggestDisabledSkipsChecks(t *testing.T) {
	cfg := Defaults()
	cfg.Suggest.Enabled = false
	cfg.Suggest.Debounce = 0
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidationErrorAccumulates(t *testing.T) {
	cfg := Defaults()
	cfg.Agent.Timeout = 0
	cfg.Logger.Format = "xml"
	err := Validate(cfg)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("err type = %T, want *ValidationError", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2: %v", len(ve.Errors), ve.Errors)
	}
}
