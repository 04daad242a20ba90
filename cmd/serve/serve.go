// Package serve is a subcommand of the root command. It publishes the capability
// profile as Prometheus metrics.
package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"cpuspecs/internal/app"
	"cpuspecs/internal/common"
	"cpuspecs/internal/exporter"
	"cpuspecs/internal/specs"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Serve the local profile:           $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  Serve on a specific address:       $ %s %s --listen 127.0.0.1:9105", app.Name, cmdName),
	fmt.Sprintf("  Serve a recorded processor:        $ %s %s --replay zen4.yaml", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:   cmdName,
	Short: "Serve the capability profile as Prometheus metrics",
	Long: `Serve the capability profile on /metrics until interrupted. Send SIGHUP to
decode the profile again.`,
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagListen    string
	flagGoMetrics bool
)

const (
	flagListenName    = "listen"
	flagGoMetricsName = "go-metrics"
)

func init() {
	Cmd.Flags().StringVar(&flagListen, flagListenName, ":9105", "")
	Cmd.Flags().BoolVar(&flagGoMetrics, flagGoMetricsName, false, "")
	common.AddSourceFlags(Cmd)
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []app.FlagGroup {
	return []app.FlagGroup{
		{
			GroupName: "Options",
			Flags: []app.Flag{
				{
					Name: flagListenName,
					Help: "address to serve metrics on",
				},
				{
					Name: flagGoMetricsName,
					Help: "also export Go runtime and process metrics",
				},
			},
		},
		common.GetSourceFlagGroup(),
	}
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if _, _, err := net.SplitHostPort(flagListen); err != nil {
		return common.FlagValidationError(cmd, fmt.Sprintf("invalid listen address %s: %v", flagListen, err))
	}
	return common.ValidateSourceFlags(cmd)
}

// newRegistry returns a registry exporting the store's profile
func newRegistry(store *specs.Store, goMetrics bool) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(exporter.NewCollector(exporter.StoreSource(store)))
	if goMetrics {
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return reg
}

// refreshOnSignal decodes the profile again each time a value arrives on signals,
// until ctx is done
func refreshOnSignal(ctx context.Context, store *specs.Store, detector *specs.Detector, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			p := store.Refresh(detector)
			slog.Info("refreshed profile", slog.String("signal", sig.String()), slog.Bool("available", p.Available))
		}
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	sources, err := common.Sources()
	if err != nil {
		return serveError(cmd, err)
	}
	source := sources[0]
	if len(sources) > 1 {
		slog.Warn("more than one source given, serving the first", slog.String("source", source.Name))
	}
	detector := source.Detector()
	store := &specs.Store{}
	p := store.Refresh(detector)
	slog.Info("serving profile", slog.String("source", source.Name), slog.Bool("available", p.Available), slog.String("vendor", p.Vendor().String()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)
	go refreshOnSignal(ctx, store, detector, hangup)

	fmt.Printf("Serving metrics on %s/metrics\n", flagListen)
	if err := exporter.Serve(ctx, flagListen, newRegistry(store, flagGoMetrics)); err != nil {
		return serveError(cmd, err)
	}
	return nil
}

func serveError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}
