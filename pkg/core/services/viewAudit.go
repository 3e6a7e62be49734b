package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vavive/rotas/pkg/db"
)

// AuditViewResult carries one run and its proximity audit rows
type AuditViewResult struct {
	Run    *db.ScheduleRun
	Audits []db.ProximityAudit
}

// ViewAudit retrieves the proximity audit for a schedule run
// An empty runID selects the most recent run
func ViewAudit(ctx context.Context, store db.ScheduleStore, logger *zap.Logger, runID string) (*AuditViewResult, error) {
	var run *db.ScheduleRun

	if runID == "" {
		latest, err := store.GetLatestScheduleRun(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch latest schedule run: %w", err)
		}
		if latest == nil {
			return nil, fmt.Errorf("no schedule runs recorded yet")
		}
		run = latest
	} else {
		runs, err := store.GetScheduleRuns(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedule runs: %w", err)
		}
		for i := range runs {
			if runs[i].ID == runID {
				run = &runs[i]
				break
			}
		}
		if run == nil {
			return nil, fmt.Errorf("schedule run %s not found", runID)
		}
	}

	logger.Debug("Fetching proximity audits", zap.String("run_id", run.ID))

	audits, err := store.GetProximityAudits(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proximity audits: %w", err)
	}

	return &AuditViewResult{Run: run, Audits: audits}, nil
}
