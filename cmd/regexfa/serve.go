package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"regexfa/internal/cache"
	"regexfa/internal/server"
)

var serveAddr string

func init() {
	cmd := newServeCmd()
	cmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default: server.addr)")
	rootCmd.AddCommand(cmd)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `The serve command exposes compile, accepts, trace, enumerate and dot as a
JSON API, with Prometheus metrics on /metrics. When cache.redis_addr is set,
compiled DFAs are cached in Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	store := openStore(ctx)
	if store != nil {
		defer store.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := server.NewHandler(cache.NewCompiler(store, logger), logger, server.Options{
		MaxEnumerate:  cfg.Server.MaxEnumerate,
		DefaultMaxLen: cfg.Enumerate.MaxLen,
		Normalize:     cfg.Normalizer(),
		Registry:      reg,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "cache", cfg.Cache.RedisAddr != "")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		timeout := cfg.Server.ShutdownTimeout
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("graceful shutdown did not complete", "timeout", timeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		logger.Info("server stopped")
		return nil
	}
}

// openStore connects to cache.redis_addr. It returns nil when no cache is
// configured or the server does not answer a ping.
func openStore(ctx context.Context) *cache.Store {
	if cfg.Cache.RedisAddr == "" {
		return nil
	}
	store := newStore()
	if err := store.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, compiling without cache", "addr", cfg.Cache.RedisAddr, "error", err)
		_ = store.Close()
		return nil
	}
	return store
}

func newStore() *cache.Store {
	return cache.New(cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.DB,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithPrefix(cfg.Cache.Prefix),
	)
}
