package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/facility-vision/catalog"
	"github.com/danielhkuo/facility-vision/cliparse"
	"github.com/danielhkuo/facility-vision/db"
	"github.com/danielhkuo/facility-vision/middleware"
	"github.com/danielhkuo/facility-vision/notify"
	"github.com/danielhkuo/facility-vision/router"
	"github.com/danielhkuo/facility-vision/store"
	"github.com/danielhkuo/facility-vision/submission"
)

func main() {
	var err error

	// Load .env before reading the environment
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog ready", "sections", len(cat.Sections), "questions", cat.TotalQuestions())

	// Connect the submission archive
	st, closeStore, err := openStore(cfg, cat)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Pick the notification sink
	var sink submission.Sink = notify.Unconfigured{}
	if cfg.EmailConfigured() {
		sink = notify.NewEmail(notify.NewResendMailer(cfg.ResendAPIKey), cat, cfg.FromEmail, cfg.RecipientEmail)
		slog.Info("Email delivery enabled", "recipient", cfg.RecipientEmail)
	} else {
		slog.Warn("RESEND_API_KEY not configured. Submissions will not be emailed.")
	}

	// Create router
	mux := router.NewRouter(cfg, cat, sink, st)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("Listen failed", "error", err)
		return
	}

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	if err := serve(&server, ln, ctrlc, cfg.SendTimeout+5*time.Second); err != nil {
		slog.Error("Server closed", "error", err)
		return
	}
	slog.Info("Server closed")
}

// serve runs server on ln until stop fires, then gives in-flight requests
// up to grace to finish. It returns only once they have, so the store stays
// open for their archive writes.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, grace time.Duration) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Shutdown did not drain", "error", err)
		}
	}()

	// Serve returns as soon as Shutdown starts
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	<-drained
	return nil
}

// openStore connects the configured archive. Without a database URL
// submissions are delivered but not kept.
func openStore(cfg cliparse.Config, cat *catalog.Catalog) (store.Store, func(), error) {
	if !cfg.StoreConfigured() {
		slog.Warn("DATABASE_URL not configured. Submissions will not be stored.")
		return store.Unconfigured{}, func() {}, nil
	}

	if cfg.DatabaseType == cliparse.StoreRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r, err := store.OpenRedis(ctx, cfg.DatabaseURL, cat)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Redis archive ready")
		return r, func() { r.Close() }, nil
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Create schema (tables)
	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		conn.Close()
		return nil, nil, err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)
	return store.NewSQL(conn, cfg.DatabaseType, cat), func() { conn.Close() }, nil
}
