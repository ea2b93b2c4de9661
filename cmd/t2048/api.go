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

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/api"
	"github.com/vovakirdan/tui-2048/internal/session"
)

var (
	flagHTTPAddr   string
	flagSessionTTL time.Duration
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP/JSON API",
	Long: `Start an HTTP server that hosts 2048 sessions.

Clients create a session, send moves and receive the new board. Every
change to a session is also pushed to WebSocket subscribers of
/api/sessions/{id}/ws. Finished games are saved to the scores database.
Sessions idle for longer than --session-ttl are removed.

Examples:
  t2048 api
  t2048 api --http :8080
  t2048 api --session-ttl 30m --log-level debug

Try it:
  curl -X POST localhost:8080/api/sessions -d '{"player":"alice"}'
  curl -X POST localhost:8080/api/sessions/<id>/move -d '{"direction":"left"}'`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (default from config: localhost:8080)")
	apiCmd.Flags().DurationVar(&flagSessionTTL, "session-ttl", 2*time.Hour, "Remove sessions idle for longer than this (0 keeps them)")
}

func runAPI(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg, "t2048-api")

	addr := cfg.Server.HTTPAddress
	if flagHTTPAddr != "" {
		addr = flagHTTPAddr
	}

	// Without a store the API still serves games; score endpoints answer 503.
	var (
		recorder session.ScoreRecorder
		scores   api.Scores
	)
	store := openStore(cfg, false)
	if store != nil {
		recorder = store
		scores = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := serveAPI(ctx, addr, session.NewManager(recorder, logger), scores, logger)
	stop()

	if store != nil {
		store.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func serveAPI(ctx context.Context, addr string, sessions *session.Manager, scores api.Scores, logger *log.Logger) error {
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()

	hub := api.NewHub(logger)
	go hub.Run(hubCtx)

	handler := api.NewServer(sessions, scores, hub, logger)
	if flagSessionTTL > 0 {
		go cleanupSessions(ctx, handler, flagSessionTTL)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP API", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")

	// Hijacked WebSocket connections are not closed by Shutdown.
	cancelHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// cleanupSessions drops idle sessions until ctx is done.
func cleanupSessions(ctx context.Context, srv *api.Server, ttl time.Duration) {
	ticker := time.NewTicker(min(ttl, time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			srv.CleanupExpired(ttl)
		}
	}
}
