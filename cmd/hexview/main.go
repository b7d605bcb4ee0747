package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"hexdefense-server/internal/agent"
	"hexdefense-server/internal/config"
	"hexdefense-server/internal/engine"
	"hexdefense-server/internal/network"
	"hexdefense-server/internal/view"
	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/logger"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	var addr, configPath, logPath string
	var sound bool
	flag.StringVar(&addr, "addr", "", "Server host:port to spectate (empty: run the scenario locally)")
	flag.StringVar(&configPath, "config", "", "Config file for the local run")
	flag.StringVar(&logPath, "log", "hexview.log", "Log file (the terminal is busy with the map)")
	flag.BoolVar(&sound, "sound", false, "Beep on deaths and leaks")
	flag.Parse()

	// Терминал занят картой, логи уходят в файл
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.Log.Fatal("Failed to open log file: ", err)
	}
	defer logFile.Close()
	logger.Log.SetOutput(logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var snapshots <-chan api.SnapshotMessage
	if addr != "" {
		snapshots, err = spectate(ctx, addr)
	} else {
		snapshots, err = runLocal(ctx, configPath)
	}
	if err != nil {
		logger.Log.Fatal(err)
	}

	var sm *view.Sound
	if sound {
		sm = view.NewSound()
		if err := sm.Init(); err != nil {
			logger.Log.WithError(err).Warn("Audio unavailable, running silent")
		}
		defer sm.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Log.Fatal("Failed to create screen: ", err)
	}
	if err := screen.Init(); err != nil {
		logger.Log.Fatal("Failed to init screen: ", err)
	}
	defer screen.Fini()

	view.NewViewer(screen, sm).Run(ctx, snapshots)
}

// spectate подключается к серверу и пересылает его снимки в канал.
func spectate(ctx context.Context, addr string) (<-chan api.SnapshotMessage, error) {
	s, err := agent.Dial(ctx, agent.WSURL(addr))
	if err != nil {
		return nil, err
	}

	out := make(chan api.SnapshotMessage, 8)
	go func() {
		defer close(out)
		err := s.Run(ctx, func(msg api.SnapshotMessage) {
			select {
			case out <- msg:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Log.WithError(err).Error("Spectator stopped")
		}
	}()
	return out, nil
}

// runLocal крутит сценарий в этом же процессе и подписывает зрителя на хаб.
func runLocal(ctx context.Context, configPath string) (<-chan api.SnapshotMessage, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	hub := network.NewBroadcaster(8)
	_, snapshots := hub.Subscribe()

	runner, _, err := engine.NewSimulation(cfg.Scenario, cfg.Engine(), hub)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Log.WithError(err).Error("Simulation stopped with error")
		}
		stats := runner.Stats()
		logger.Log.WithFields(logrus.Fields{
			"spawned": stats.Spawned,
			"killed":  stats.Killed,
			"leaked":  stats.Leaked,
		}).Info("Local run finished")
	}()
	return snapshots, nil
}
