package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/chazu/csgpart/pkg/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Re-evaluate part documents every time one is saved",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a save is evaluated")
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	_ = viper.BindPFlag("watch_debounce", watchCmd.Flags().Lookup("debounce"))
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	app, cfg, err := newAppFromConfig(cmd, reg)
	if err != nil {
		return err
	}
	logger := app.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		srv := serveMetrics(addr, reg, logger)
		defer shutdown(srv)
	}

	result, err := openAll(ctx, app, args)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), result)

	w, err := watch.New(args, cfg.WatchDebounce, logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Changes:
			if !ok {
				return nil
			}
			src, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("reload failed", slog.String("file", path), slog.String("error", err.Error()))
				continue
			}
			name := matchArg(args, path)
			fmt.Fprintf(cmd.OutOrStdout(), "-- %s changed\n", name)
			printSummary(cmd.OutOrStdout(), app.EvaluateDocument(name, string(src)))
		}
	}
}

// matchArg maps an absolute path from the watcher back to the argument it
// came from, so the document keeps its name.
func matchArg(args []string, path string) string {
	for _, a := range args {
		if abs, err := filepath.Abs(a); err == nil && abs == path {
			return a
		}
	}
	return path
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.String("error", err.Error()))
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
