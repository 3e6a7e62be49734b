package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vavive/rotas/internal/config"
	"github.com/vavive/rotas/pkg/core/model"
	"github.com/vavive/rotas/pkg/core/recurrence"
)

// ExpandPlans materializes the configured recurring plans into forecast
// orders covering horizonDays starting at from
func ExpandPlans(logger *zap.Logger, plans []config.PlanRecurrence, from time.Time, horizonDays int) ([]model.ServiceOrder, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d days", horizonDays)
	}

	to := from.AddDate(0, 0, horizonDays-1)
	orders, err := recurrence.Expand(plans, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to expand plans: %w", err)
	}

	logger.Info("Recurring plans expanded",
		zap.Int("plans", len(plans)),
		zap.Int("orders", len(orders)),
		zap.String("from", from.Format("2006-01-02")),
		zap.String("to", to.Format("2006-01-02")))

	return orders, nil
}
