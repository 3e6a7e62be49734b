package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vavive/rotas/pkg/db"
)

// InsertScheduleRun inserts a new schedule run record
func (d *DB) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun) error {
	runAt, err := time.Parse(time.RFC3339, run.RunAt)
	if err != nil {
		return fmt.Errorf("failed to parse run timestamp: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO schedule_run (id, run_at, max_candidates, order_count)
		VALUES ($1, $2, $3, $4)
	`, run.ID, runAt.UTC(), run.MaxCandidates, run.OrderCount)
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}
	return nil
}

// GetScheduleRuns retrieves all schedule run records, most recent first
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_at, max_candidates, order_count
		FROM schedule_run
		ORDER BY run_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []db.ScheduleRun
	for rows.Next() {
		var r db.ScheduleRun
		var runAt time.Time
		if err := rows.Scan(&r.ID, &runAt, &r.MaxCandidates, &r.OrderCount); err != nil {
			return nil, fmt.Errorf("failed to scan schedule run: %w", err)
		}
		r.RunAt = runAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule runs: %w", err)
	}

	return runs, nil
}

// GetLatestScheduleRun retrieves the most recent schedule run
// Returns nil when no run has been persisted yet
func (d *DB) GetLatestScheduleRun(ctx context.Context) (*db.ScheduleRun, error) {
	runs, err := d.GetScheduleRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
