package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dattachavhan/todo-ai/internal/adapter/llm"
	"github.com/Dattachavhan/todo-ai/internal/adapter/tool"
	"github.com/Dattachavhan/todo-ai/internal/domain"
	"github.com/Dattachavhan/todo-ai/internal/infra/config"
	"github.com/Dattachavhan/todo-ai/internal/infra/logger"
	"github.com/Dattachavhan/todo-ai/internal/usecase"
	"github.com/Dattachavhan/todo-ai/internal/usecase/eventbus"
	"github.com/Dattachavhan/todo-ai/internal/usecase/suggest"
	"github.com/Dattachavhan/todo-ai/internal/usecase/todo"
)

type observability struct {
	log *slog.Logger
}

// app holds the wired components shared by every command.
type app struct {
	cfg *config.Config
	log *slog.Logger
	bus *eventbus.Bus

	provider  domain.LLMProvider
	providers *llm.Registry
	gateway   *usecase.Gateway
	store     *todo.Store
	tools     *tool.Registry
	session   *usecase.ChatSession
	agent     *usecase.Agent
	assistant *usecase.Assistant
	form      *usecase.Form
	tabs      *usecase.Tabs
}

// newApp wires the application. The cleanup function closes everything in
// reverse order.
func newApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	// 1. Logger & tracer
	obs, obsCleanup, err := setupObservability(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log := obs.log

	// 2. Event bus
	bus := eventbus.New(logger.Component(log, "eventbus"))

	// 3. LLM providers
	provider, providers, err := llm.Build(cfg.LLM, logger.Component(log, "llm"))
	if err != nil {
		bus.Close()
		obsCleanup()
		return nil, nil, fmt.Errorf("llm: %w", err)
	}
	log.Info("llm ready", "default", cfg.LLM.DefaultProvider, "providers", providers.List(),
		"circuit_breaker", cfg.LLM.CircuitBreaker.Enabled, "failover", cfg.LLM.Failover.Enabled)

	// 4. Gateway
	gateway := usecase.NewGateway(provider, usecase.GatewayOptions{
		CompletionModel:   cfg.Suggest.Model,
		MinChars:          cfg.Suggest.MinChars,
		CompletionTimeout: cfg.Suggest.Timeout,
		Logger:            logger.Component(log, "gateway"),
		Bus:               bus,
	})

	// 5. Task store & tools
	store := todo.NewStore(todo.WithEventBus(bus), todo.WithLogger(logger.Component(log, "store")))
	tools := tool.NewRegistry(logger.Component(log, "tools"))
	if err := tool.RegisterTodoTools(tools, store, logger.Component(log, "tools")); err != nil {
		bus.Close()
		obsCleanup()
		return nil, nil, fmt.Errorf("tools: %w", err)
	}

	// 6. Agent & assistant
	session := gateway.StartChat(cfg.Agent.SystemPrompt, tools.Schemas())
	agent := usecase.NewAgent(usecase.AgentDeps{
		Session: session,
		Tools:   tools,
		Logger:  logger.Component(log, "agent"),
		Bus:     bus,
		Timeout: cfg.Agent.Timeout,
	})
	assistant := usecase.NewAssistant(agent, bus)

	// 7. Form with one suggestion pipeline per input
	var completer domain.Completer = gateway
	if !cfg.Suggest.Enabled {
		completer = noSuggestions{}
	}
	field := func(name string) *suggest.Field {
		return suggest.NewField(completer, suggest.Options{
			Name:     name,
			Debounce: cfg.Suggest.Debounce,
			Logger:   logger.Component(log, "suggest"),
			Bus:      bus,
		})
	}
	title, desc := field("title"), field("description")
	form := usecase.NewForm(store, title, desc)

	a := &app{
		cfg:       cfg,
		log:       log,
		bus:       bus,
		provider:  provider,
		providers: providers,
		gateway:   gateway,
		store:     store,
		tools:     tools,
		session:   session,
		agent:     agent,
		assistant: assistant,
		form:      form,
		tabs:      usecase.NewTabs(store),
	}
	cleanup := func() {
		title.Close()
		desc.Close()
		bus.Close()
		obsCleanup()
	}
	return a, cleanup, nil
}

// noSuggestions is the completer used when autocomplete is switched off.
type noSuggestions struct{}

func (noSuggestions) Complete(context.Context, string) string { return "" }

// warnIfUnreachable logs when a local provider is not answering, since
// every request would otherwise fail silently into an empty suggestion.
func (a *app) warnIfUnreachable(ctx context.Context) {
	pc, ok := a.cfg.Provider(a.cfg.LLM.DefaultProvider)
	if !ok {
		return
	}
	raw, err := llm.NewProvider(pc, a.log)
	if err != nil {
		return
	}
	checker, ok := raw.(interface{ IsHealthy(context.Context) bool })
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if !checker.IsHealthy(ctx) {
		a.log.Warn("llm provider is not reachable", "provider", pc.Name, "base_url", pc.BaseURL)
	}
}
