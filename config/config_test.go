package config

import (
	"testing"
	"time"

	"github.com/lbonnet/mpvris/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logger.Level
	}{
		{"debug", logger.DEBUG},
		{"DEBUG", logger.DEBUG},
		{"Debug", logger.DEBUG},
		{"info", logger.INFO},
		{"INFO", logger.INFO},
		{"warn", logger.WARN},
		{"WARN", logger.WARN},
		{"error", logger.ERROR},
		{"ERROR", logger.ERROR},
		{"fatal", logger.FATAL},
		{"FATAL", logger.FATAL},
		{"unknown", logger.WARN}, // default
		{"", logger.WARN},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidBusSuffix(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		wantErr bool
	}{
		{"plain name", "mpv", false},
		{"instance suffix", "mpv.instance1234", false},
		{"empty", "", true},
		{"slash", "mpv/evil", true},
		{"newline", "mpv\n", true},
		{"dot dot", "mpv..other", true},
		{"null byte", "mpv\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validBusSuffix(tt.suffix)
			if (err != nil) != tt.wantErr {
				t.Errorf("validBusSuffix(%q) error = %v, wantErr %v", tt.suffix, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultSocket(t *testing.T) {
	got := defaultSocket("/run/user/1000")
	if got != "/run/user/1000/mpv.sock" {
		t.Errorf("defaultSocket() = %q, want /run/user/1000/mpv.sock", got)
	}
}

func TestConfigStructFields(t *testing.T) {
	cfg := &Config{
		Player: &PlayerConfig{
			Socket:      "/run/user/1000/mpv.sock",
			WaitSocket:  true,
			CallTimeout: 5 * time.Second,
		},
		Bridge: &BridgeConfig{
			BusName:  "org.mpris.MediaPlayer2.mpv",
			Identity: "mpv Media Player",
		},
		Audio:    &AudioConfig{Backend: "mpv"},
		LogLevel: logger.INFO,
	}

	if cfg.Player.Socket != "/run/user/1000/mpv.sock" {
		t.Errorf("Socket = %q, want /run/user/1000/mpv.sock", cfg.Player.Socket)
	}
	if cfg.Player.CallTimeout != 5*time.Second {
		t.Errorf("CallTimeout = %v, want 5s", cfg.Player.CallTimeout)
	}
	if cfg.Bridge.BusName != "org.mpris.MediaPlayer2.mpv" {
		t.Errorf("BusName = %q, want org.mpris.MediaPlayer2.mpv", cfg.Bridge.BusName)
	}
	if cfg.Audio.Backend != "mpv" {
		t.Errorf("Backend = %q, want mpv", cfg.Audio.Backend)
	}
	if cfg.LogLevel != logger.INFO {
		t.Errorf("LogLevel = %d, want %d", cfg.LogLevel, logger.INFO)
	}
}

func BenchmarkParseLogLevel(b *testing.B) {
	for i := 0; i < b.N; i++ {
		parseLogLevel("DEBUG")
	}
}
