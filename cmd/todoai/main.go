package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Dattachavhan/todo-ai/internal/adapter/tui/board"
	"github.com/Dattachavhan/todo-ai/internal/infra/config"
	"github.com/Dattachavhan/todo-ai/internal/infra/logger"
	"github.com/Dattachavhan/todo-ai/internal/infra/tracer"
	"github.com/Dattachavhan/todo-ai/internal/usecase/suggest"
)

func main() {
	flags := parseFlags(os.Args[1:])

	var err error
	switch flags.Command {
	case "help":
		showUsage()
		return
	case "":
		err = runTUI(flags)
	case "chat":
		err = runChat(flags)
	case "suggest":
		err = runSuggest(flags)
	case "encrypt-key":
		err = runEncryptKey(flags)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'todoai --help' for usage information.\n", flags.Command)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandName(flags.Command), err)
		os.Exit(1)
	}
}

func commandName(cmd string) string {
	if cmd == "" {
		return "fatal"
	}
	return cmd
}

func showUsage() {
	fmt.Println(`todoai - todo list with AI autocomplete and a task assistant

USAGE:
    todoai [COMMAND] [FLAGS] [ARGS]

COMMANDS:
    (none)              Open the interactive task board
    chat MESSAGE        Send one message to the assistant and print the reply
    suggest TEXT        Print the autocomplete suggestion for TEXT
    encrypt-key VALUE   Encrypt an API key for config.yaml (needs TODOAI_CONFIG_KEY)
    help                Show this help message

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ./config.yaml)
    --provider NAME    LLM provider type (gemini, openai, ollama)
    --model NAME       Model name (e.g. gemini-2.5-flash)
    --key KEY          API key for the provider

CONFIGURATION:
    Config file: ./config.yaml (optional; defaults use Gemini)
    Environment: TODOAI_* variables override config, GEMINI_API_KEY is
                 used for gemini providers without a key

EXAMPLES:
    GEMINI_API_KEY=... todoai
    todoai --provider ollama --model llama3.2
    todoai chat "add buy milk to my list"
    todoai suggest "Buy groceries for the"`)
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	Command    string
	Args       []string
	ConfigPath string
	Provider   string
	Model      string
	APIKey     string
}

// parseFlags accepts "--flag value" and "--flag=value" anywhere on the
// line. The first bare word is the command; the rest are its arguments.
func parseFlags(args []string) cliFlags {
	var flags cliFlags
	value := func(i *int, name string) (string, bool) {
		a := args[*i]
		if strings.HasPrefix(a, name+"=") {
			return strings.TrimPrefix(a, name+"="), true
		}
		if a == name && *i+1 < len(args) {
			*i++
			return args[*i], true
		}
		return "", false
	}

	for i := 0; i < len(args); i++ {
		if v, ok := value(&i, "--config"); ok {
			flags.ConfigPath = v
			continue
		}
		if v, ok := value(&i, "--provider"); ok {
			flags.Provider = v
			continue
		}
		if v, ok := value(&i, "--model"); ok {
			flags.Model = v
			continue
		}
		if v, ok := value(&i, "--key"); ok {
			flags.APIKey = v
			continue
		}
		switch a := args[i]; {
		case a == "-h" || a == "--help" || a == "help":
			if flags.Command == "" {
				flags.Command = "help"
			} else {
				flags.Args = append(flags.Args, a)
			}
		case flags.Command == "":
			flags.Command = a
		default:
			flags.Args = append(flags.Args, a)
		}
	}
	return flags
}

func configPath(flags cliFlags) string {
	if flags.ConfigPath != "" {
		return flags.ConfigPath
	}
	if v := os.Getenv("TODOAI_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

// loadConfig reads the config file, then lets --provider/--model/--key
// replace the provider list with a single quick-start entry.
func loadConfig(flags cliFlags) (*config.Config, error) {
	cfg, err := config.Load(configPath(flags))
	if err != nil {
		return nil, err
	}
	if flags.Provider == "" {
		if flags.Model != "" || flags.APIKey != "" {
			pc, _ := cfg.Provider(cfg.LLM.DefaultProvider)
			if flags.Model != "" {
				pc.Model = flags.Model
			}
			if flags.APIKey != "" {
				pc.APIKey = flags.APIKey
			}
			replaceProvider(cfg, pc)
		}
		return cfg, nil
	}

	pc := config.ProviderConfig{
		Name:   flags.Provider,
		Type:   flags.Provider,
		Model:  flags.Model,
		APIKey: flags.APIKey,
	}
	if existing, ok := cfg.Provider(flags.Provider); ok {
		pc = existing
		if flags.Model != "" {
			pc.Model = flags.Model
		}
		if flags.APIKey != "" {
			pc.APIKey = flags.APIKey
		}
	}
	if pc.Model == "" {
		pc.Model = defaultModel(pc.Type)
	}
	replaceProvider(cfg, pc)
	// Env keys fill in a missing --key; the flags themselves win.
	config.ApplyEnvOverrides(cfg)
	if flags.APIKey != "" {
		replaceProvider(cfg, withKey(cfg, pc.Name, flags.APIKey))
	}
	cfg.LLM.DefaultProvider = pc.Name
	cfg.LLM.Failover.Enabled = false

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func replaceProvider(cfg *config.Config, pc config.ProviderConfig) {
	for i := range cfg.LLM.Providers {
		if cfg.LLM.Providers[i].Name == pc.Name {
			cfg.LLM.Providers[i] = pc
			return
		}
	}
	cfg.LLM.Providers = append(cfg.LLM.Providers, pc)
}

func withKey(cfg *config.Config, name, key string) config.ProviderConfig {
	pc, _ := cfg.Provider(name)
	pc.APIKey = key
	return pc
}

func defaultModel(providerType string) string {
	switch strings.ToLower(providerType) {
	case "openai":
		return "gpt-4o-mini"
	case "ollama":
		return "llama3.2"
	default:
		return "gemini-2.5-flash"
	}
}

// tuiLogOutput keeps logs off the terminal the UI is drawing on.
func tuiLogOutput(cfg *config.Config) {
	switch strings.ToLower(cfg.Logger.Output) {
	case "", "stderr", "stdout":
		cfg.Logger.Output = filepath.Join(os.TempDir(), "todoai.log")
	}
}

func runTUI(flags cliFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	tuiLogOutput(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	a.warnIfUnreachable(ctx)

	pc, _ := cfg.Provider(cfg.LLM.DefaultProvider)
	return board.Run(ctx, board.Deps{
		Store:     a.store,
		Tabs:      a.tabs,
		Form:      a.form,
		Assistant: a.assistant,
		Bus:       a.bus,
		Logger:    a.log,
		Provider:  pc.Name,
		ModelName: pc.Model,
	})
}

func runChat(flags cliFlags) error {
	text := strings.Join(flags.Args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: todoai chat MESSAGE")
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	reply, _ := a.assistant.Send(ctx, text)
	fmt.Println(reply)
	return nil
}

func runSuggest(flags cliFlags) error {
	text := strings.Join(flags.Args, " ")
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	completion := a.gateway.Complete(ctx, text)
	fmt.Println(text + suggest.Normalize(text, completion))
	return nil
}

func runEncryptKey(flags cliFlags) error {
	if len(flags.Args) != 1 {
		return fmt.Errorf("usage: TODOAI_CONFIG_KEY=... todoai encrypt-key VALUE")
	}
	passphrase := os.Getenv("TODOAI_CONFIG_KEY")
	if passphrase == "" {
		return fmt.Errorf("TODOAI_CONFIG_KEY is not set")
	}
	enc, err := config.EncryptValue(flags.Args[0], passphrase)
	if err != nil {
		return err
	}
	fmt.Println(enc)
	return nil
}

// setupObservability creates the logger and tracer. The returned cleanup
// flushes spans before closing the log file.
func setupObservability(ctx context.Context, cfg *config.Config) (*observability, func(), error) {
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	shutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		logCloser()
		return nil, nil, fmt.Errorf("tracer: %w", err)
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Error("tracer shutdown", "error", err)
		}
		logCloser()
	}
	return &observability{log: log}, cleanup, nil
}
