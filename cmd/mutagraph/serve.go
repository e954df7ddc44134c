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

	"github.com/aretw0/mutagraph/internal/cli"
	"github.com/aretw0/mutagraph/internal/presentation/tui"
	httpAdapter "github.com/aretw0/mutagraph/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP generation server",
	Long:  `Serves graph generation, archived traces and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen, _ = cmd.Flags().GetString("listen")
		}

		rt, err := cli.Build(cfg, cmd.ErrOrStderr(), prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := &http.Server{
			Addr: cfg.Listen,
			Handler: httpAdapter.NewHandler(&httpAdapter.Server{
				Generator:   rt.Generator,
				Store:       rt.Store,
				Gatherer:    prometheus.DefaultGatherer,
				DefaultSize: cfg.Size,
				Logger:      rt.Logger,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(cmd.OutOrStdout())
			rt.Logger.Info("starting server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			rt.Logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				rt.Logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				return srv.Close()
			}
			rt.Logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "Address to listen on")
	serveCmd.Flags().IntP("size", "n", 20, "Default number of mutations per request")
	serveCmd.Flags().Bool("open", false, "Leave generated graphs open so /graph.mmd can inspect them")
}
