package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vavive/rotas/cmd/cli/commands"
	"github.com/vavive/rotas/internal/config"
	"github.com/vavive/rotas/pkg/clients/sheetsclient"
	"github.com/vavive/rotas/pkg/postgres"
	"github.com/vavive/rotas/pkg/utils/logging"
)

var (
	configPath string
	verbose    bool
	app        *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rotas",
		Short: "Vavivê scheduling CLI - Build ranked professional suggestions for service orders",
		Long:  `A CLI tool that loads the operator's workbook, runs the multi-tier assignment engine, and persists ranked candidate lists with proximity audits.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: vavive_config.yaml in cwd or home)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.RunScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.ViewAuditCmd(appRef()))
	rootCmd.AddCommand(commands.ExpandPlansCmd(appRef()))
	rootCmd.AddCommand(commands.ListProfessionalsCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, allocating it before initialization
// so command constructors can capture it ahead of PersistentPreRunE
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, sheets client, and database
func initApp(command string) error {
	var err error
	a := appRef()
	a.Ctx = context.Background()

	// Initialize logger
	a.Logger, err = logging.InitLogger(command, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.Logger.Info("Starting application", zap.String("command", command))

	// Load configuration
	a.Logger.Info("Loading configuration")
	if configPath != "" {
		a.Cfg, err = config.LoadFromPath(configPath)
	} else {
		a.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Logger.Debug("Configuration loaded successfully")

	// Load OAuth client configuration
	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClient()
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	a.Logger.Debug("OAuth configuration loaded successfully")

	// Initialize sheets client
	a.Logger.Info("Initializing sheets client")
	a.SheetsClient, err = sheetsclient.NewClient(a.Ctx, oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	a.Logger.Debug("Sheets client initialized successfully")

	// Initialize database when configured
	if a.Cfg.DatabaseURL != "" {
		a.Logger.Info("Connecting to database")
		database, err := postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(a.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.Database = database
		a.Logger.Debug("Database ready")
	} else {
		a.Logger.Warn("No databaseURL configured; runs will not be persisted")
	}

	return nil
}
