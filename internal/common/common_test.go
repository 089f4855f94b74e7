package common

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input     string
		expected  slog.Level
		expectErr bool
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "", expected: slog.LevelInfo},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "verbose", expected: slog.LevelInfo, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error %v, got %v", tt.expectErr, err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	if err := ConfigureLogger("debug"); err != nil {
		t.Fatal(err)
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug logging to be enabled")
	}

	if err := ConfigureLogger("nonsense"); err == nil {
		t.Error("expected error for unknown level")
	}
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected fallback to info level")
	}
}

type generateRequest struct {
	Assets []string `validate:"required,min=1,dive,required"`
}

func TestGenericEchoValidator(t *testing.T) {
	v := &GenericEchoValidator{}

	if err := v.Validate(&generateRequest{Assets: []string{"icon"}}); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}

	err := v.Validate(&generateRequest{})
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTP error, got %v", err)
	}
	if msg, _ := httpErr.Message.(string); !strings.Contains(msg, "Assets") {
		t.Errorf("expected message to name the field, got %v", httpErr.Message)
	}
}
