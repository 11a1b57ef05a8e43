package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/voidstrike/internal/config"
	"github.com/udisondev/voidstrike/internal/db"
	"github.com/udisondev/voidstrike/internal/sim"
	"github.com/udisondev/voidstrike/internal/weapon"
)

const ConfigPath = "config/simulator.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("VOIDSTRIKE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	var database *db.DB
	if cfg.Database.Enabled {
		database, err = db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		if cfg.Database.LoadPresets {
			if err := loadPresets(ctx, database, &cfg); err != nil {
				return err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	matchID, err := cfg.ParseMatchID()
	if err != nil {
		return err
	}
	if matchID == uuid.Nil {
		matchID = sim.NewMatchID()
	}

	world, err := sim.NewWorld(cfg.World, cfg.WeaponMap(), sim.NewRNG(matchID))
	if err != nil {
		return fmt.Errorf("creating world: %w", err)
	}

	var recorder *db.MatchRecorder
	if database != nil {
		recorder = db.NewMatchRecorder(database.Pool(), matchID, cfg.Database.BatchSize)
		if err := recorder.Begin(ctx, string(world.Orchestrator().Strategy().Kind())); err != nil {
			return fmt.Errorf("recording match: %w", err)
		}
		world.OnEvent(recorder.Record)
	}

	slog.Info("voidstrike simulator starting",
		"match", matchID,
		"duration", cfg.Duration,
		"time_scale", cfg.Loop.TimeScale,
		"recording", recorder != nil)

	loop := sim.NewLoop(cfg.Loop, world, sim.NewReporter(world, cfg.ReportInterval.Seconds()))
	world.Start()

	loopCtx := ctx
	if cfg.Duration > 0 {
		// Duration is simulated time; the loop advances TimeScale seconds per wall second.
		wall := time.Duration(float64(cfg.Duration) / cfg.Loop.TimeScale)
		var cancel context.CancelFunc
		loopCtx, cancel = context.WithTimeout(ctx, wall)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(loopCtx)

	g.Go(func() error {
		if err := loop.Run(gctx); err != nil && !isShutdown(err) {
			return fmt.Errorf("simulation loop: %w", err)
		}
		return nil
	})

	if recorder != nil {
		g.Go(func() error {
			slog.Info("starting match recorder", "interval", cfg.Database.FlushInterval)
			if err := recorder.Run(gctx, cfg.Database.FlushInterval); err != nil {
				return fmt.Errorf("match recorder: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	hits, kills := world.Stats()
	slog.Info("match finished",
		"match", matchID,
		"sim_time", loop.Now(),
		"frames", loop.Frames(),
		"fixed_steps", loop.FixedSteps(),
		"hits", hits,
		"kills", kills)

	if recorder != nil {
		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := recorder.Finish(finishCtx, loop.Now(), hits, kills); err != nil {
			return fmt.Errorf("finishing match: %w", err)
		}
	}

	return nil
}

// loadPresets overrides the weapon roster and the spawn strategy with the
// rows stored in the database.
func loadPresets(ctx context.Context, database *db.DB, cfg *config.Simulation) error {
	weapons, err := db.NewWeaponRepository(database.Pool()).LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading weapon presets: %w", err)
	}
	cfg.Weapons = mergeWeapons(cfg.Weapons, weapons)
	slog.Info("weapon presets loaded", "count", len(weapons))

	if cfg.Database.SpawnPreset == "" {
		return nil
	}
	preset, err := db.NewSpawnPresetRepository(database.Pool()).LoadByName(ctx, cfg.Database.SpawnPreset)
	if err != nil {
		return fmt.Errorf("loading spawn preset: %w", err)
	}
	preset.Apply(&cfg.World.Spawn)
	slog.Info("spawn preset applied", "preset", preset.Name, "strategy", preset.Strategy.Kind)
	return nil
}

// mergeWeapons replaces configured profiles with stored ones of the same
// name and appends the rest, keeping the configured order.
func mergeWeapons(configured, stored []weapon.Profile) []weapon.Profile {
	index := make(map[string]int, len(configured))
	out := slices.Clone(configured)
	for i, w := range out {
		index[w.Name] = i
	}
	for _, w := range stored {
		if i, ok := index[w.Name]; ok {
			out[i] = w
			continue
		}
		index[w.Name] = len(out)
		out = append(out, w)
	}
	return out
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
