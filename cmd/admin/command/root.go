package command

// root.go defines the root command of the yamdb operator CLI and the
// connections shared by its subcommands.

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"yamdb/database"
	"yamdb/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var verbose bool // Global flag for debug logging

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yamdb-admin",
	Short: "yamdb-admin - operator tasks for the yamdb API",
	Long: `yamdb-admin runs maintenance tasks against the database configured
through the same environment (.env, DATABASE_URL, ...) as the API server:
- apply schema migrations
- create a superuser
- load demo data

Use "yamdb-admin [command] --help" to see the flags of each command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createSuperuserCmd)
	rootCmd.AddCommand(seedCmd)
}

// connect loads the configuration and opens a migrated database.
func connect() (*gorm.DB, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	logger := cfg.NewLogger(os.Stderr)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, logger); err != nil {
		database.Close(db)
		return nil, nil, err
	}
	return db, logger, nil
}
