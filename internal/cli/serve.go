package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidfact/vidfact/internal/pipeline"
	"github.com/vidfact/vidfact/internal/server"
	"github.com/vidfact/vidfact/internal/store"
	"github.com/vidfact/vidfact/internal/worker"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve starts the HTTP API that browser extensions talk to:

  POST   /upload-audio              process one audio chunk
  GET    /get-verdicts/{video_id}   all verdicts stored for a video
  DELETE /clear-verdicts/{video_id} drop a video's verdicts

The provider credential arrives with each upload, so the server itself
needs no API key.

Example:
  vidfact serve
  vidfact serve --port 9000 --host 127.0.0.1`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log := buildLogger(cfg)

	st := store.NewMemoryStore()
	p := pipeline.New(cfg, st, log)
	p.SetLimiter(worker.NewProviderLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))

	srv := server.New(cfg, p, st, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
