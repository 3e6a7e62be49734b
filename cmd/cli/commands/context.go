package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/vavive/rotas/internal/config"
	"github.com/vavive/rotas/pkg/clients/sheetsclient"
	"github.com/vavive/rotas/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client

	// Database is nil when no databaseURL is configured; commands that
	// persist or read runs must check for it
	Database db.ScheduleStore

	Logger *zap.Logger
	Ctx    context.Context
}
