package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run executes the watch command. It runs ingestion immediately and then
// on every tick until interrupted. A tick arriving while a run is still in
// progress is skipped.
func (c *WatchCmd) Run(deps *Dependencies) error {
	if c.Interval <= 0 {
		err := lookat.Errorf(lookat.EINVALID, "interval must be positive")
		fmt.Fprintf(deps.Stderr, "error: %s\n", lookat.ErrorMessage(err))
		return err
	}

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.MetricsAddr != "" && deps.Registry != nil {
		srv := &http.Server{
			Addr:              c.MetricsAddr,
			Handler:           metricsHandler(deps),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				deps.Logger.Error("metrics server", "addr", c.MetricsAddr, "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		deps.Logger.Info("serving metrics", "addr", c.MetricsAddr, "path", "/metrics")
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex // serializes report output
	)
	defer wg.Wait()

	trigger := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if report := runOnce(ctx, deps); report != nil {
				mu.Lock()
				printReport(deps.Stdout, report)
				mu.Unlock()
			}
		}()
	}

	deps.Logger.Info("watching feeds", "interval", c.Interval)
	trigger()

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			deps.Logger.Info("stopping", "reason", context.Cause(ctx))
			return nil
		case <-ticker.C:
			trigger()
		}
	}
}

// runOnce performs one ingestion run, treating an overlapping run as skipped.
// It returns nil when no report was produced.
func runOnce(ctx context.Context, deps *Dependencies) *lookat.RunReport {
	report, err := deps.Ingestion.RunIngestion(ctx)
	switch {
	case lookat.ErrorCode(err) == lookat.ECONFLICT:
		deps.Logger.Info("run skipped", "reason", lookat.ErrorMessage(err))
		return nil
	case err != nil:
		deps.Logger.Error("run failed", "err", err)
		return nil
	}
	return report
}

func metricsHandler(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	return mux
}
