package main

import (
	"fmt"
	"os"

	"github.com/diewo77/invoice-api/internal/config"
	"github.com/diewo77/invoice-api/internal/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	envFile string
	cfg     *config.Config
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "invoice-api",
	Short: "Invoice API server",
	Long: `invoice-api serves the invoice JSON API: sessions, invoice CRUD with
exact totals and due dates, and line item reconciliation on edit.

Configuration is read from the environment (and an optional .env file).
Running without a subcommand starts the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("load env file: %w", err)
		}
		cfg = config.Load()
		l, err := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stdout})
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Log.Level, err)
		}
		log = l
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
