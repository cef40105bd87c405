package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantry-pilot/internal/app"
	"pantry-pilot/pkg/logger"
)

const shutdownGrace = 5 * time.Second

func main() {
	log := logger.NewFromEnv()
	os.Exit(run(log))
}

func run(log logger.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(log)
	if err != nil {
		log.Critical("startup failed", "err", err)
		return 1
	}

	srv := application.HTTPServer()
	listenErr := make(chan error, 1)
	go func() {
		log.Info("pantry-pilot listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, draining requests")
	case err := <-listenErr:
		log.Critical("listener exited", "addr", srv.Addr, "err", err)
		code = 1
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error("drain incomplete", "err", err)
		code = 1
	}

	if err := application.Close(); err != nil {
		log.Error("cleanup failed", "err", err)
		code = 1
	}

	log.Info("pantry-pilot stopped")
	return code
}
