package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"embydebug/internal/config"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	}
	for _, tt := range tests {
		log := New(config.LogConfig{Level: tt.level, Output: "discard"})
		if log.GetLevel() != tt.want {
			t.Errorf("level %q: got %v, want %v", tt.level, log.GetLevel(), tt.want)
		}
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "embydebug.log")
	log := New(config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})

	log.WithField("library", "Music").Info("library selected")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"library":"Music"`) {
		t.Fatalf("log file missing field: %s", data)
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Out != io.Discard {
		t.Fatal("Discard logger should write to io.Discard")
	}
}

func TestNewFormatters(t *testing.T) {
	tests := []struct {
		format string
		check  func(logrus.Formatter) bool
	}{
		{"json", func(f logrus.Formatter) bool { _, ok := f.(*logrus.JSONFormatter); return ok }},
		{"nested", func(f logrus.Formatter) bool { _, ok := f.(*nested.Formatter); return ok }},
		{"text", func(f logrus.Formatter) bool { _, ok := f.(*logrus.TextFormatter); return ok }},
		{"", func(f logrus.Formatter) bool { _, ok := f.(*logrus.TextFormatter); return ok }},
	}
	for _, tt := range tests {
		log := New(config.LogConfig{Format: tt.format, Output: "discard"})
		if !tt.check(log.Formatter) {
			t.Errorf("format %q: got %T", tt.format, log.Formatter)
		}
	}
}

func TestNestedFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embydebug.log")
	log := New(config.LogConfig{Level: "info", Format: "nested", Output: "file", FilePath: path, MaxSize: 1})

	log.WithField("case", "genres").Info("running test case")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "[case:genres]") || !strings.Contains(string(data), "running test case") {
		t.Fatalf("unexpected nested output: %s", data)
	}
}
