package httpserver

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/codex-template/service-template/internal/config"
	"github.com/codex-template/service-template/pkg/logger"
)

func TestServerLifecycle(t *testing.T) {
	log := logger.New(logger.LoggingConfig{Level: "ERROR", Format: "json"})
	log.SetOutput(io.Discard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := New(config.ServerConfig{Host: "127.0.0.1", Port: 0}, log, handler)

	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("addr = %q", srv.Addr())
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != http.ErrServerClosed {
			t.Fatalf("start returned %v, want http.ErrServerClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
