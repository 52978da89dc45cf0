package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWithLevel(t *testing.T) {
	defer SetLogger(nil)

	if err := InitWithLevel("debug"); err != nil {
		t.Fatalf("InitWithLevel(debug) failed: %v", err)
	}
	if Log == nil {
		t.Fatal("Log should be set after init")
	}
	if !Log.Core().Enabled(zap.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}

func TestInitWithInvalidLevel(t *testing.T) {
	if err := InitWithLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))

	Log.Info("hello", zap.String("component", "test"))

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	if logs.All()[0].Message != "hello" {
		t.Errorf("unexpected message %q", logs.All()[0].Message)
	}
}

func TestSetLoggerNil(t *testing.T) {
	SetLogger(nil)
	if Log == nil {
		t.Fatal("nil logger should fall back to no-op")
	}
	Log.Info("ignored")
}
