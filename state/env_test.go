package state

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}

	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.Uptime() < 0 {
		t.Error("Uptime() went backwards")
	}
}

func TestEnvFromContext_PanicsWithoutEnv(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("EnvFromContext() should panic when env is missing")
		}
	}()
	EnvFromContext(context.Background())
}

func TestRedirectStdLog(t *testing.T) {
	env := newLocalEnv()
	env.Log = zaptest.NewLogger(t)

	env.RedirectStdLog()
	if env.restoreStdLog == nil {
		t.Error("RedirectStdLog() did not capture restore function")
	}
	env.RestoreStdLog()
}

func TestRedirectStdLog_NilLogger(t *testing.T) {
	env := newLocalEnv()
	// must be a no-op without a logger
	env.RedirectStdLog()
	env.RestoreStdLog()
}
