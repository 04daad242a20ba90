// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler returns the HTTP handler serving the registry on /metrics
func NewHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Serve serves the registry on addr until ctx is done
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeListener(ctx, listener, reg)
}

// ServeListener serves the registry on an existing listener until ctx is done
func ServeListener(ctx context.Context, listener net.Listener, reg *prometheus.Registry) error {
	server := &http.Server{
		Handler:           NewHandler(reg),
		ReadHeaderTimeout: 3 * time.Second,
	}
	slog.Info("Starting Prometheus metrics server", slog.String("address", listener.Addr().String()))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down metrics server: %w", err)
		}
		slog.Info("Prometheus metrics server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Prometheus HTTP server Serve error", slog.String("error", err.Error()))
			return err
		}
		return nil
	}
}
