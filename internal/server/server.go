// Package server runs the HTTP and gRPC listeners until the process is
// signalled, then drains both.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/internal/kernel"
	"github.com/shashiranjanraj/dinehub/pkg/grpc"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Start boots the kernel and serves until SIGINT or SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	k, err := kernel.Boot(ctx, kernel.Options{})
	if err != nil {
		return err
	}
	defer k.Close(context.Background())

	return Serve(ctx, k, ":"+config.AppPort(), config.GRPCPort())
}

// Serve runs k's handler on addr, and the gRPC health service on grpcPort
// when it is non-empty, until ctx is done.
func Serve(ctx context.Context, k *kernel.Kernel, addr, grpcPort string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if grpcPort != "" {
		gs, err := grpc.Start(grpcPort, k.Stores)
		if err != nil {
			return err
		}
		defer grpc.Stop(gs)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
