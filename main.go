package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/lbonnet/mpvris/audio"
	"github.com/lbonnet/mpvris/bridge"
	"github.com/lbonnet/mpvris/config"
	"github.com/lbonnet/mpvris/logger"
	"github.com/lbonnet/mpvris/player"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("[%s] Failed to load config: %v", config.AppName, err)
	}

	// Set log level from config
	logger.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := player.Connect(cfg.Player)
	if err != nil {
		logger.Fatal("[%s] Player connection failed: %v", config.AppName, err)
	}
	defer p.Close()

	var gain bridge.GainControl
	if cfg.Audio.Backend == "pulse" {
		pg, err := audio.NewPulseGain(cfg.Audio)
		if err != nil {
			logger.Fatal("[%s] PulseAudio connection failed: %v", config.AppName, err)
		}
		defer pg.Close()
		gain = pg
	}

	b, err := bridge.New(cfg.Bridge, p, gain)
	if err != nil {
		logger.Fatal("[%s] Bridge initialization failed: %v", config.AppName, err)
	}
	if err := b.Start(); err != nil {
		logger.Fatal("[%s] Bridge start failed: %v", config.AppName, err)
	}

	// Goroutine for signal handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("[%s] Shutdown signal received, stopping...", config.AppName)
		cancel()
	}()

	// Tell systemd we are up when running under Type=notify.
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Warn("[%s] sd_notify ready: %v", config.AppName, err)
	}

	logger.Info("[%s] started", config.AppName)
	if err := b.Run(ctx); err != nil {
		logger.Error("[%s] event loop error: %v", config.AppName, err)
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		logger.Warn("[%s] sd_notify stopping: %v", config.AppName, err)
	}

	b.Close()
	logger.Info("[%s] stopped", config.AppName)
}
