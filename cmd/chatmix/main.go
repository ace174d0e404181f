package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/config"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/feed"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/log"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/prefs"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/safety"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/source"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("chatmix %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("chatmix is interactive, run it in a terminal")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting chatmix", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	// Durable preference store (safety filter + likes)
	store, err := prefs.NewStore(config.DefaultCacheDir())
	if err != nil {
		return fmt.Errorf("failed to open preference store: %w", err)
	}
	defer store.Close()

	session := prefs.NewSessionStore()

	// Safety filter, gated by the entitlement flag; the upsell collaborator
	// is the TUI and registers itself below.
	entitlements := safety.StaticEntitlements(cfg.Feed.UnfilteredEligible)
	filter := safety.New(entitlements, nil, session, store, logger)

	// Content source and feed tuning
	client := source.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	feedCfg := feed.Config{
		MaxWindowSize:     cfg.Feed.MaxWindowSize,
		PruneBuffer:       cfg.Feed.PruneBuffer,
		PrefetchThreshold: cfg.Feed.PrefetchThreshold,
		PrefetchCooldown:  time.Duration(cfg.Feed.PrefetchCooldownMs) * time.Millisecond,
		PageSize:          cfg.Feed.PageSize,
	}
	scheduler := feed.NewPrefetchScheduler(client, feedCfg, logger)

	mode := domain.NsfwExclude
	if entitlements.CanViewUnfiltered() {
		mode = domain.NsfwInclude
	}
	cursor := source.NewCursor("", mode, feedCfg.PageSize)

	// TUI model; it is both the renderer collaborator and the upsell target
	model := tui.NewModel(feedCfg, scheduler, cursor, filter, store,
		time.Duration(cfg.UI.TransitionMs)*time.Millisecond, logger)
	filter.SetUpsell(model)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the character service URL on first run
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Chatmix!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter the character service URL (e.g., https://api.example.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}
		cfg.Server.URL = serverURL
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}
