package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/txtree"
	"github.com/aretw0/txtree/internal/config"
	"github.com/aretw0/txtree/internal/logging"
	"github.com/aretw0/txtree/internal/presentation/tui"
	httpAdapter "github.com/aretw0/txtree/pkg/adapters/http"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/aretw0/txtree/pkg/observability"
	"github.com/aretw0/txtree/pkg/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves stored documents over HTTP. Settings come from TXTREE_* environment
variables; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr, _ = cmd.Flags().GetString("addr")
			}
			if cmd.Flags().Changed("store") {
				cfg.Store, _ = cmd.Flags().GetString("store")
			}
			if cmd.Flags().Changed("dir") {
				cfg.FileDir, _ = cmd.Flags().GetString("dir")
			}
			if !cmd.Flags().Changed("log-level") {
				level, err := logging.ParseLevel(cfg.LogLevel)
				if err != nil {
					return err
				}
				format, _ := cmd.Flags().GetString("log-format")
				a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level, format)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, cfg)
		},
	}
	cmd.Flags().String("addr", ":8080", "Address to listen on")
	cmd.Flags().String("store", config.StoreMemory, "Document store (memory, file, redis)")
	cmd.Flags().String("dir", "", "Directory of the file store")
	return cmd
}

func serve(ctx context.Context, a *app, cfg config.ServerConfig) error {
	store, opts, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Warn("failed to close store", "err", err)
		}
	}()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	opts = append(opts,
		workspace.WithLogger(a.logger),
		workspace.WithDocumentOptions(document.WithHooks(metrics.Hooks())),
	)
	mgr := workspace.NewManager(store, opts...)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpAdapter.NewHandler(mgr, httpAdapter.WithLogger(a.logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if tui.IsTerminal(os.Stderr) {
		tui.PrintBanner(os.Stderr, strings.TrimSpace(txtree.Version))
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", srv.Addr, "store", cfg.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		a.logger.Info("server stopped")
		return nil
	}
}
