package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		if err := db.ConnectDatabase(cfg.DatabaseDSN); err != nil {
			return err
		}

		if err := db.MigrateDatabase(); err != nil {
			return err
		}

		log.Println("database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
