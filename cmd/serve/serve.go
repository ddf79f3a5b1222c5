// Package serve runs the HTTP upload endpoint.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/web"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the standardizer over HTTP",
	Long: `Start an HTTP server exposing POST /api/standardize, POST /api/preview
and GET /healthz. Uploads are multipart forms with a "file" field.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, e.g. :8080)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	log := c.GetLogger()

	listen := cfg.Server.Addr
	if addr != "" {
		listen = addr
	}

	server := web.NewServer(c.GetStandardizer(), cfg, log.WithField(logging.FieldComponent, "web"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Shutdown error")
		}
	}()

	return server.Start(listen)
}
