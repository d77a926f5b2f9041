// ABOUTME: Entry point for the pixelchat terminal client.
// ABOUTME: Wires config, store, director, and resolvers, then hands the terminal to the TUI.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/pixelmbti/chat/internal/actions"
	"github.com/pixelmbti/chat/internal/config"
	"github.com/pixelmbti/chat/internal/conversation"
	"github.com/pixelmbti/chat/internal/director"
	"github.com/pixelmbti/chat/internal/persona"
	"github.com/pixelmbti/chat/internal/store"
	"github.com/pixelmbti/chat/internal/tui"
)

// version is set by goreleaser at build time.
var version = "dev"

const banner = `
       _          _      _           _
 _ __ (_)_  _____| | ___| |__   __ _| |_
| '_ \| \ \/ / _ \ |/ __| '_ \ / _' | __|
| |_) | |>  <  __/ | (__| | | | (_| | |_
| .__/|_/_/\_\___|_|\___|_| |_|\__,_|\__|
|_|
`

const exampleConfig = `# pixelchat configuration
credentials:
  api_key: ${GEMINI_API_KEY}

models:
  director: gemini-3-pro-preview
  image: gemini-3-pro-image-preview
  video: veo-3.1-fast-generate-preview
  search: gemini-2.5-flash

video:
  poll_interval: 5s
  max_polls: 60

maps:
  latitude: 37.7749
  longitude: -122.4194

personas:
  pack_dir: ""

logging:
  level: info
  format: text
`

// getConfigPath returns the path to the config file.
// Priority: PIXELCHAT_CONFIG env var > XDG_CONFIG_HOME/pixelchat/config.yaml > ~/.config/pixelchat/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PIXELCHAT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "pixelchat", "config.yaml")
}

// getDataPath returns the path to the data directory used for logs.
// Priority: XDG_DATA_HOME/pixelchat > ~/.local/share/pixelchat
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "pixelchat")
}

func main() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command := "chat"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var err error
	switch command {
	case "chat":
		err = runChat(ctx)
	case "init":
		err = runInit()
	case "personas":
		err = runPersonas()
	case "version":
		fmt.Println(version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: pixelchat [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  chat       Start the chat client (default)")
	fmt.Println("  init       Create a config file")
	fmt.Println("  personas   List the built-in personality profiles")
	fmt.Println("  version    Print the version")
}

// loadConfig reads the config file, falling back to defaults when the file
// does not exist yet.
func loadConfig() (*config.Config, string, error) {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config.Default(), configPath, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, configPath, fmt.Errorf("loading config: %w", err)
	}
	return cfg, configPath, nil
}

func runChat(ctx context.Context) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	cyan.Print(banner)
	gray.Printf("    version: %s\n", version)
	gray.Printf("    config:  %s\n\n", configPath)

	// The TUI owns the terminal, so logs go to a file in the data dir.
	dataPath := getDataPath()
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(dataPath, "pixelchat.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := setupLogger(cfg.Logging, logFile)

	registry := persona.NewRegistry(logger)
	if err := registry.LoadDir(cfg.Personas.PackDir); err != nil {
		return fmt.Errorf("loading persona packs: %w", err)
	}

	st := store.NewRoomStore(registry, logger)
	defer st.Close()

	var (
		dir       conversation.Director
		resolvers conversation.Resolvers
	)
	if cfg.HasValidCredential() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Credentials.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("creating provider client: %w", err)
		}
		dir = director.NewGemini(client, cfg.Models.Director, logger)
		resolvers = conversation.Resolvers{
			Image: actions.NewImageGenerator(client, cfg.Models.Image, logger),
			Video: actions.NewVideoGenerator(client, cfg.Models.Video, cfg.Credentials.APIKey,
				cfg.Video.PollInterval, cfg.Video.MaxPolls, logger),
			Web: actions.NewWebSearcher(client, cfg.Models.Search, logger),
			Maps: actions.NewMapsSearcher(client, cfg.Models.Search, nil,
				actions.LatLng{Latitude: cfg.Maps.Latitude, Longitude: cfg.Maps.Longitude}, logger),
		}
	}

	svc := conversation.New(st, dir, resolvers, cfg, logger)

	logger.Info("starting pixelchat",
		"config", configPath,
		"director_model", cfg.Models.Director,
		"credential", cfg.HasValidCredential(),
	)

	program := tea.NewProgram(
		tui.NewModel(ctx, st, svc, registry, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running chat client: %w", err)
	}
	return nil
}

// runInit writes an example config file unless one already exists.
func runInit() error {
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Created %s\n", configPath)
	fmt.Println("Set GEMINI_API_KEY in your environment, then run: pixelchat")
	return nil
}

// runPersonas prints the 16 profiles, including any pack overrides.
func runPersonas() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	registry := persona.NewRegistry(slog.New(slog.DiscardHandler))
	if err := registry.LoadDir(cfg.Personas.PackDir); err != nil {
		return fmt.Errorf("loading persona packs: %w", err)
	}

	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)
	for _, prof := range registry.All() {
		cyan.Printf("%-6s", prof.Type)
		fmt.Printf(" %-14s", prof.Name)
		gray.Printf(" %s\n", prof.Color)
	}
	return nil
}

func setupLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
