package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lbonnet/mpvris/logger"
)

const (
	AppName    = "mpvris"
	AppVersion = "0.2.1"

	// mprisPrefix is the well-known MPRIS bus name prefix; the configured
	// name suffix is appended to it.
	mprisPrefix = "org.mpris.MediaPlayer2"
)

type Config struct {
	Player   *PlayerConfig
	Bridge   *BridgeConfig
	Audio    *AudioConfig
	LogLevel logger.Level
}

// PlayerConfig describes how to reach the mpv JSON IPC socket.
type PlayerConfig struct {
	Socket       string
	WaitSocket   bool
	WaitTimeout  time.Duration
	CallTimeout  time.Duration
	PingInterval time.Duration
}

// BridgeConfig describes the MPRIS service identity on the session bus.
type BridgeConfig struct {
	BusName      string
	Identity     string
	DesktopEntry string
}

// AudioConfig selects the device gain backend for the Volume property.
type AudioConfig struct {
	Backend       string // "mpv" or "pulse"
	XDGRuntimeDir string
}

// parseLogLevel converts a string to a logger.Level
func parseLogLevel(levelStr string) logger.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return logger.DEBUG
	case "INFO":
		return logger.INFO
	case "WARN":
		return logger.WARN
	case "ERROR":
		return logger.ERROR
	case "FATAL":
		return logger.FATAL
	default:
		return logger.WARN // default
	}
}

// defaultSocket returns the conventional per-user mpv IPC socket path.
func defaultSocket(xdgRuntimeDir string) string {
	return filepath.Join(xdgRuntimeDir, "mpv.sock")
}

func validBusSuffix(name string) error {
	if name == "" {
		return fmt.Errorf("empty bus name suffix")
	}
	if strings.ContainsAny(name, "/\x00\r\n") || strings.Contains(name, "..") {
		return fmt.Errorf("bus name suffix %q contains illegal characters", name)
	}
	return nil
}

func New() (*Config, error) {
	xdgRuntimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if xdgRuntimeDir == "" {
		xdgRuntimeDir = fmt.Sprintf("/run/user/%d", os.Getuid())
	}

	viper.SetDefault("socket.path", defaultSocket(xdgRuntimeDir))
	viper.SetDefault("socket.wait", true)
	viper.SetDefault("socket.wait_timeout", "30s")

	viper.SetDefault("call.timeout", "5s")
	viper.SetDefault("ping.interval", "10s")

	viper.SetDefault("name", "mpv")
	viper.SetDefault("identity", "mpv Media Player")
	viper.SetDefault("desktop_entry", "mpv")

	viper.SetDefault("audio.backend", "mpv")

	viper.SetDefault("LogLevel", "WARN")

	// Load from configuration file when present
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join("/etc", AppName))
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", AppName))
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with defaults if not found
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			logger.Warn("failed to read config: %v", err)
		}
	}

	suffix := viper.GetString("name")
	if err := validBusSuffix(suffix); err != nil {
		return nil, err
	}

	callTimeout := viper.GetDuration("call.timeout")
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}

	waitTimeout := viper.GetDuration("socket.wait_timeout")
	if waitTimeout <= 0 {
		waitTimeout = 30 * time.Second
	}

	backend := strings.ToLower(viper.GetString("audio.backend"))
	switch backend {
	case "mpv", "pulse":
	default:
		return nil, fmt.Errorf("invalid audio backend: %q", backend)
	}

	playercfg := PlayerConfig{
		Socket:       viper.GetString("socket.path"),
		WaitSocket:   viper.GetBool("socket.wait"),
		WaitTimeout:  waitTimeout,
		CallTimeout:  callTimeout,
		PingInterval: viper.GetDuration("ping.interval"),
	}

	bridgecfg := BridgeConfig{
		BusName:      mprisPrefix + "." + suffix,
		Identity:     viper.GetString("identity"),
		DesktopEntry: viper.GetString("desktop_entry"),
	}

	audiocfg := AudioConfig{
		Backend:       backend,
		XDGRuntimeDir: xdgRuntimeDir,
	}

	cfg := Config{
		Player:   &playercfg,
		Bridge:   &bridgecfg,
		Audio:    &audiocfg,
		LogLevel: parseLogLevel(viper.GetString("LogLevel")),
	}

	// Optional per-component level overrides, e.g. log.levels.player: DEBUG
	if levels := viper.GetStringMapString("log.levels"); len(levels) > 0 {
		overrides := make(map[string]logger.Level, len(levels))
		for pkg, lvl := range levels {
			overrides[pkg] = parseLogLevel(lvl)
		}
		logger.SetPackageLevels(overrides)
	}

	return &cfg, nil
}
