package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"undercroft-server/internal/domain"
	"undercroft-server/internal/engine"
	"undercroft-server/internal/infrastructure/storage"
	"undercroft-server/internal/network"
	"undercroft-server/internal/server"
	"undercroft-server/internal/version"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: умолчания -> UD_* -> флаги
	cfg := engine.NewConfig()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		logger.Log.WithError(err).Fatal("Bad environment")
	}

	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Master seed (default: random or UD_SEED)")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Map width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Map height")
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "Generation preset: standard, tiny, large, dense_caves, tight_caves, mixed")
	flag.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Override strategy: rooms or caves")
	flag.IntVar(&cfg.Monsters, "monsters", cfg.Monsters, "Monsters per level (-1: from preset)")
	flag.StringVar(&cfg.TilesPath, "tiles", cfg.TilesPath, "JSON file with tile property overrides")
	flag.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "Directory for level snapshots")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Simulation step interval")
	dumpPath := flag.String("dump", "", "Generate the first level, write its snapshot to this file and exit")
	flag.Parse()

	logger.Log.Info("Starting Undercroft...")
	logger.Log.Info(version.String())
	logger.Log.WithFields(logrus.Fields{
		"seed":     cfg.Seed,
		"size":     []int{cfg.Width, cfg.Height},
		"preset":   cfg.Preset,
		"strategy": cfg.Strategy,
	}).Info("Configuration loaded")

	// 2. Таблица свойств клеток
	props := domain.NewPropertyTable()
	if cfg.TilesPath != "" {
		if err := props.LoadFile(cfg.TilesPath); err != nil {
			logger.Log.WithError(err).Fatal("Failed to load tile properties")
		}
		logger.Log.WithField("path", cfg.TilesPath).Info("Tile properties loaded")
	}

	// 3. Симуляция
	inst, err := engine.NewInstance(cfg, props)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create instance")
	}

	if *dumpPath != "" {
		if err := dumpLevel(inst, *dumpPath); err != nil {
			logger.Log.WithError(err).Fatal("Failed to dump level")
		}
		logger.Log.WithField("path", *dumpPath).Info("Level snapshot written")
		return
	}

	store, err := storage.NewLevelStore(cfg.SaveDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open level store")
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Сервер
	srv := server.New(inst, network.NewBroadcaster(), cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	go func() {
		if err := inst.Run(ctx, cfg.TickInterval, srv.Publish); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Simulation stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("Server shutdown failed")
	}

	// Сохраняем текущий уровень
	if path, err := inst.SaveLevel(store); err != nil {
		logger.Log.WithError(err).Error("Failed to save level")
	} else {
		logger.Log.WithField("path", path).Info("Level saved")
	}

	logger.Log.Info("Done.")
}

func dumpLevel(inst *engine.Instance, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := inst.WriteLevel(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
