package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/joescharf/osg/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the showcase web page",
	Long: `Start an HTTP server that renders the showcase page and the add-project
dialog. By default it listens on port 3000. Use --port to change it.

The backend is resolved from site.url, the public address of the page:
localhost and 127.0.0.1 talk to backend.local_url, anything else to
backend.production_url (or the site.url origin when that is empty).
Request Host and X-Forwarded-* headers are never used to pick a backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 3000, "port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func serveRun(ctx context.Context) error {
	gc, err := newPreviewer()
	if err != nil {
		return err
	}
	page, err := sitePage()
	if err != nil {
		return err
	}
	srv, err := web.NewServer(newBackend(), gc, web.Options{Page: page, Logger: slog.Default()})
	if err != nil {
		return fmt.Errorf("failed to initialize web server: %w", err)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", viper.GetInt("port")))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return serveUntilDone(ctx, ln, srv.Router())
}

// serveUntilDone serves handler on ln until ctx is cancelled or a shutdown
// signal arrives, then drains in-flight requests.
func serveUntilDone(ctx context.Context, ln net.Listener, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, shutdownSignals()...)
	defer stop()

	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ui.Info("Serving showcase at http://localhost:%d", ln.Addr().(*net.TCPAddr).Port)
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
