package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/activity"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/config"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/router"
	"github.com/taskhive-dev/taskhive/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		if err := auth.InitJWTSecret(); err != nil {
			return err
		}

		if err := db.ConnectDatabase(cfg.DatabaseDSN); err != nil {
			return err
		}

		if err := db.MigrateDatabase(); err != nil {
			return err
		}

		audit := activity.NewAuditRecorder(db.DB)

		var notify activity.Notifier = activity.LogNotifier{}
		if cfg.SMTPAddr != "" {
			notify = activity.NewMailNotifier(cfg.SMTPAddr, cfg.SMTPFrom)
		}

		resetTTL := time.Duration(cfg.ResetTokenTTLMinutes) * time.Minute

		h := handlers.New(
			services.NewUserService(db.DB, audit, notify, resetTTL),
			services.NewProjectService(db.DB, audit, notify),
			services.NewMembershipService(db.DB, audit, notify),
			services.NewTaskService(db.DB, audit, notify),
			services.NewCommentService(db.DB, audit, notify),
			services.NewStatsService(db.DB),
		)

		srv := &http.Server{
			Addr:    cfg.AppURL,
			Handler: router.NewRouter(h, cfg.RateLimitPerMinute),
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
