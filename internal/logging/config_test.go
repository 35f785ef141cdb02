package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{raw: "", want: zerolog.InfoLevel, ok: false},
		{raw: "trace", want: zerolog.TraceLevel, ok: true},
		{raw: " DEBUG ", want: zerolog.DebugLevel, ok: true},
		{raw: "warning", want: zerolog.WarnLevel, ok: true},
		{raw: "off", want: zerolog.Disabled, ok: true},
		{raw: "loud", want: zerolog.InfoLevel, ok: false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseLevel(%q) = %v,%v want %v,%v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "true")
	t.Setenv(EnvLogNoColor, "1")
	t.Setenv(EnvLogJSON, "not-a-bool")

	cfg := defaultConfig(ProfileTest)
	applyEnvOverrides(&cfg)

	if cfg.Level != zerolog.ErrorLevel || !cfg.Timestamp || !cfg.NoColor || cfg.JSON {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, JSON: true}, &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Str("shape", "legacy").Msg("encoded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["message"] != "encoded" || entry["shape"] != "legacy" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["time"]; ok {
		t.Fatalf("timestamp written with Timestamp=false")
	}
}
