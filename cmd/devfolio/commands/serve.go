package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"devfolio/internal/cache"
	"devfolio/internal/config"
	"devfolio/internal/database"
	"devfolio/internal/handlers"
	"devfolio/internal/notify"
	"devfolio/internal/router"
	"devfolio/internal/session"
	"devfolio/internal/storage"
	"devfolio/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the devfolio API server: connects to PostgreSQL and Valkey,
applies pending migrations, seeds a development admin account and the
default services when the tables are empty, and serves the public and
admin APIs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	// PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Development convenience: a default admin account when none exist.
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Valkey — sessions and the public response cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessions := session.NewStore(valkeyClient, secureCookies, cfg.IdleTimeout)
	defer sessions.Close()

	respCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)

	// Data stores.
	profileStore := store.NewProfileStore(db)
	projectStore := store.NewProjectStore(db)
	postStore := store.NewPostStore(db)
	serviceStore := store.NewServiceStore(db)
	messageStore := store.NewMessageStore(db)
	userStore := store.NewUserStore(db)

	// A fresh site gets the stock services; non-empty tables are left alone.
	if err := serviceStore.SeedDefaults(); err != nil {
		return fmt.Errorf("seed default services: %w", err)
	}

	// S3-compatible object storage (optional — uploads disabled without it).
	mediaStorage, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
	)
	if err != nil {
		return fmt.Errorf("initialize object storage: %w", err)
	}
	if mediaStorage != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "public_bucket", cfg.S3BucketPublic)
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	// Contact notifications (optional).
	notifier := notify.New(cfg.NotifyEndpoint, cfg.NotifyServiceID, cfg.NotifyTemplateID, cfg.NotifyUserID)
	if !notifier.Enabled() {
		slog.Warn("notifications not configured, contact messages are stored only")
	}

	r := router.New(router.Deps{
		Sessions:      sessions,
		Public:        handlers.NewPublic(profileStore, projectStore, postStore, serviceStore, messageStore, respCache, notifier, mediaStorage),
		Admin:         handlers.NewAdmin(profileStore, projectStore, postStore, serviceStore, messageStore, respCache),
		Auth:          handlers.NewAuth(sessions, userStore),
		Media:         handlers.NewMedia(mediaStorage),
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: secureCookies,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
