package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/hotstock/backend/pkg/config"
)

func TestNewSetsLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{name: "debug level", level: "debug", wantLevel: zerolog.DebugLevel},
		{name: "info level", level: "info", wantLevel: zerolog.InfoLevel},
		{name: "warn level", level: "warn", wantLevel: zerolog.WarnLevel},
		{name: "error level", level: "error", wantLevel: zerolog.ErrorLevel},
		{name: "unknown falls back to info", level: "bogus", wantLevel: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Env:       "development",
				LogLevel:  tt.level,
				LogFormat: "json",
			}
			New(cfg)

			if got := zerolog.GlobalLevel(); got != tt.wantLevel {
				t.Errorf("global level = %s, want %s", got, tt.wantLevel)
			}
		})
	}
}

func TestWithFieldChaining(t *testing.T) {
	log := NewNop()

	derived := log.WithField("symbol", "600519").WithError(nil)
	if derived == nil {
		t.Fatal("derived logger should not be nil")
	}

	derived = log.WithFields(map[string]interface{}{"a": 1, "b": "x"})
	if derived == nil {
		t.Fatal("derived logger should not be nil")
	}
}
