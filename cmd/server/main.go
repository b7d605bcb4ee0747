package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"hexdefense-server/internal/config"
	"hexdefense-server/internal/engine"
	"hexdefense-server/internal/network"
	"hexdefense-server/internal/server"
	"hexdefense-server/internal/version"
	"hexdefense-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configPath string
	var ticks int
	flag.StringVar(&configPath, "config", "", "Path to config file (json, yaml or toml)")
	flag.IntVar(&ticks, "ticks", 0, "Headless mode: run N ticks without HTTP and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Fatal("Failed to load config: ", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	logger.Log.Info("Starting Hex Defense simulation...")
	logger.Log.Info(version.String())

	hub := network.NewBroadcaster(32)

	// 2. Инициализация симуляции
	runner, spawner, err := engine.NewSimulation(cfg.Scenario, cfg.Engine(), hub)
	if err != nil {
		logger.Log.Fatal("Failed to build simulation: ", err)
	}

	// РЕЖИМ БЕЗ СЕТИ
	if ticks > 0 {
		logger.Log.Infof("Mode: headless, %d ticks", ticks)
		if err := runner.RunTicks(ticks); err != nil {
			logger.Log.Fatal("Simulation failed: ", err)
		}

		stats := runner.Stats()
		logger.Log.WithFields(logrus.Fields{
			"tick":    runner.Clock().Tick(),
			"spawned": stats.Spawned,
			"killed":  stats.Killed,
			"leaked":  stats.Leaked,
			"pending": spawner.Pending(),
		}).Info("Headless run finished")
		return
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Запуск сервера
	srv := server.New(hub, runner, server.NewDebugHandler(runner, spawner), cfg.Server.Port)

	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	if err := runner.Run(ctx); err != nil {
		logger.Log.Error("Simulation stopped with error: ", err)
	}

	// Симуляция могла закончиться сама (maxTicks, волны кончились) - сервер
	// остаётся отдавать последний снимок до сигнала.
	<-ctx.Done()
	logger.Log.Info("Shutting down...")
	logger.Log.Info("Done.")
}
