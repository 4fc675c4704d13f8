package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/arbor"
	httpAdapter "github.com/aretw0/arbor/internal/adapters/http"
	redisAdapter "github.com/aretw0/arbor/internal/adapters/redis"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/workflows/codereview"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the orchestrator HTTP server",
	Long:  `Starts the Arbor engine in server mode, exposing graph creation, run triggering and run polling as a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		level, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(logging.ParseLevel(level))
		metrics := observability.New(prometheus.DefaultRegisterer)

		opts := []arbor.Option{
			arbor.WithLogger(logger),
			arbor.WithLifecycleHooks(metrics.Hooks()),
		}
		if redisAddr != "" {
			logger.Info("using redis run store", "addr", redisAddr)
			opts = append(opts, arbor.WithRunStore(redisAdapter.New(redisAddr, "", 0)))
		}

		engine := arbor.New(opts...)
		codereview.Register(engine.Registry(), engine.Tools())

		r := chi.NewRouter()
		r.Handle("/metrics", promhttp.Handler())
		r.Mount("/", httpAdapter.NewHandler(engine, engine.Registry(), engine.Tools(), logger))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: r,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Arbor Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Arbor Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the run store (default: in-memory)")
}
