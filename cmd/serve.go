package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-catalog/pkg/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string
	var maxPageSize int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listen
			}
			if cmd.Flags().Changed("max-page-size") {
				cfg.MaxPageSize = maxPageSize
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c, err := newCatalog(cfg)
			if err != nil {
				return err
			}
			if err := c.EnsureReachable(cmd.Context()); err != nil {
				log.Printf("WARN: Store at %v is not reachable yet: %v", cfg.StoreURLs, err)
			}

			srv := server.NewServer(c,
				server.WithCORSOrigins(cfg.CORSAllowOrigin...),
				server.WithMetrics(cfg.MetricsEnabled),
				server.WithMaxUploadBytes(cfg.MaxUploadBytes),
			)

			httpServer := &http.Server{
				Addr:    cfg.ListenAddr,
				Handler: srv.Router(),
			}

			// Start server in a goroutine
			serveErr := make(chan error, 1)
			go func() {
				log.Printf("Starting go-catalog server on %s", cfg.ListenAddr)
				log.Printf("Using Elasticsearch at %v", cfg.StoreURLs)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			// Wait for interrupt signal to gracefully shutdown the server
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-serveErr:
				return err
			case <-quit:
			}
			log.Println("Shutting down server...")

			// Give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				log.Printf("ERROR: Server forced to shutdown: %v", err)
				return err
			}

			log.Println("Server exited")
			return nil
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default :1234)")
	cmd.Flags().IntVar(&maxPageSize, "max-page-size", 0, "Largest search page, 0 for unbounded")
	return cmd
}
