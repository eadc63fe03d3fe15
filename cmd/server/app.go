package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/invoice-api/internal/db"
	"github.com/diewo77/invoice-api/internal/logger"
	"github.com/diewo77/invoice-api/internal/server"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		conn, err := db.Open(cfg.Database, logger.WithComponent(log, "db"))
		if err != nil {
			return err
		}
		if err := migrateSchema(conn); err != nil {
			return err
		}
		log.Info().Msg("migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the demo user and invoices",
	RunE: func(_ *cobra.Command, _ []string) error {
		conn, err := db.Open(cfg.Database, logger.WithComponent(log, "db"))
		if err != nil {
			return err
		}
		if err := seed(conn); err != nil {
			return err
		}
		log.Info().Str("email", db.SeedUserEmail).Msg("seeding completed")
		return nil
	},
}

// migrateSchema runs the embedded SQL migrations on postgres and AutoMigrate on sqlite.
func migrateSchema(conn *gorm.DB) error {
	if cfg.Database.Driver == "postgres" {
		if err := db.RunSQLMigrations(cfg.Database.URL()); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
		return nil
	}
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func seed(conn *gorm.DB) error {
	if err := db.Seed(conn, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func runServe(_ *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	conn, err := db.Open(cfg.Database, logger.WithComponent(log, "db"))
	if err != nil {
		return err
	}
	if cfg.App.Migrations {
		if err := migrateSchema(conn); err != nil {
			return err
		}
		log.Info().Msg("migrations completed")
	}
	if cfg.App.Seed {
		if err := seed(conn); err != nil {
			return err
		}
		log.Info().Msg("demo data seeded")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.New(conn, cfg, logger.WithComponent(log, "http")),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("dev", cfg.App.Dev).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}
