// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// captureLogs swaps the global logger for one writing to a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(strings.Split(strings.TrimSpace(buf.String()), "\n")[0])
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %q: %v", line, err)
	}
	return m
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
}

func TestInit(t *testing.T) {
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("dropped")
	Warn().Msg("kept")

	output := buf.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("info line written at warn level: %s", output)
	}
	if !strings.Contains(output, `"message":"kept"`) {
		t.Errorf("expected warn line, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCtxAddsRequestAndUser(t *testing.T) {
	buf := captureLogs(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "user-1")
	Ctx(ctx).Info().Msg("hello")

	m := decodeLine(t, buf)
	if m["request_id"] != "req-1" {
		t.Errorf("request_id = %v", m["request_id"])
	}
	if m["user_id"] != "user-1" {
		t.Errorf("user_id = %v", m["user_id"])
	}
}

func TestCtxWithoutValues(t *testing.T) {
	buf := captureLogs(t)

	Ctx(context.Background()).Info().Msg("bare")

	m := decodeLine(t, buf)
	if _, ok := m["request_id"]; ok {
		t.Error("request_id should be absent")
	}
	if RequestIDFromContext(context.Background()) != "" || UserIDFromContext(context.Background()) != "" {
		t.Error("empty context should yield empty IDs")
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureLogs(t)

	l := WithComponent("store")
	l.Info().Msg("opened")

	if m := decodeLine(t, buf); m["component"] != "store" {
		t.Errorf("component = %v", m["component"])
	}
}

func TestSlogHandler(t *testing.T) {
	buf := captureLogs(t)

	slogger := NewSlogLogger().With("layer", "api").WithGroup("svc")
	slogger.Warn("service restarted", "name", "http", "attempt", 2, "err", errors.New("boom"))

	m := decodeLine(t, buf)
	if m["level"] != "warn" {
		t.Errorf("level = %v, want warn", m["level"])
	}
	if m["message"] != "service restarted" {
		t.Errorf("message = %v", m["message"])
	}
	if m["layer"] != "api" {
		t.Errorf("layer = %v", m["layer"])
	}
	if m["svc.name"] != "http" {
		t.Errorf("svc.name = %v", m["svc.name"])
	}
	if m["svc.attempt"] != float64(2) {
		t.Errorf("svc.attempt = %v", m["svc.attempt"])
	}
	if m["svc.err"] != "boom" {
		t.Errorf("svc.err = %v", m["svc.err"])
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewSlogHandler(zerolog.New(&buf).Level(zerolog.WarnLevel))

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}
