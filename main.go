package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/audio"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	terminalMode := flag.Bool("terminal", false, "Render in the terminal instead of a window")
	sound := flag.Bool("sound", false, "Play audio cues for flock events (overrides audio.enabled)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Headless ticks per update call (0 = use config)")
	schoolFish := flag.Int("school-fish", -1, "Number of school fish (-1 = use config)")
	predators := flag.Int("predators", -1, "Number of predators (-1 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging). The terminal
	// renderer owns stdout, so logs go to stderr there.
	logOut := os.Stdout
	if *terminalMode {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := run(runOptions{
		configPath:     *configPath,
		headless:       *headless,
		terminal:       *terminalMode,
		sound:          *sound,
		logStats:       *logStats,
		statsWindow:    *statsWindow,
		outputDir:      *outputDir,
		seed:           *seed,
		maxTicks:       *maxTicks,
		stepsPerUpdate: *stepsPerUpdate,
		schoolFish:     *schoolFish,
		predators:      *predators,
	}); err != nil {
		slog.Error("shoal failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath     string
	headless       bool
	terminal       bool
	sound          bool
	logStats       bool
	statsWindow    float64
	outputDir      string
	seed           int64
	maxTicks       int
	stepsPerUpdate int
	schoolFish     int
	predators      int
}

func run(o runOptions) error {
	if o.headless && o.terminal {
		return fmt.Errorf("-headless and -terminal are mutually exclusive")
	}

	// Initialize config before anything else
	if err := config.Init(o.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if o.schoolFish >= 0 {
		cfg.Population.SchoolFish = o.schoolFish
	}
	if o.predators >= 0 {
		cfg.Population.Predators = o.predators
	}

	rngSeed := o.seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       o.logStats,
		StatsWindowSec: o.statsWindow,
		OutputDir:      o.outputDir,
		Headless:       o.headless || o.terminal,
		StepsPerUpdate: o.stepsPerUpdate,
	}

	if o.sound || cfg.Audio.Enabled {
		cues := audio.NewCues(cfg.Audio)
		if err := cues.Initialize(); err != nil {
			// Non-fatal, the simulation runs without sound
			slog.Warn("audio unavailable", "error", err)
		} else {
			defer cues.Cleanup()
			opts.OnEvent = cues.HandleEvent
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case o.headless:
		return runHeadless(ctx, opts, o.maxTicks)
	case o.terminal:
		return runTerminal(ctx, opts, cfg.Terminal)
	default:
		return runWindow(opts, cfg, o.maxTicks)
	}
}

// runHeadless steps on the fixed clock until max ticks or a signal.
func runHeadless(ctx context.Context, opts game.Options, maxTicks int) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return nil
		default:
		}

		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return nil
		}
	}
}

// runTerminal renders in a tcell screen on wall-clock time.
func runTerminal(ctx context.Context, opts game.Options, tcfg config.TerminalConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	defer screen.Fini()

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	return terminal.Run(ctx, screen, g, tcfg)
}

// runWindow opens a raylib window and runs until it is closed.
func runWindow(opts game.Options, cfg *config.Config, maxTicks int) error {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Shoal")
	defer rl.CloseWindow()

	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
