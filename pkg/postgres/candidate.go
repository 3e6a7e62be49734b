package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vavive/rotas/pkg/db"
)

// InsertCandidates inserts ranked candidate records for a schedule run
func (d *DB) InsertCandidates(ctx context.Context, candidates []db.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range candidates {
		_, err := tx.Exec(ctx, `
			INSERT INTO candidate (id, run_id, order_id, client_tax_id, service_date,
				rank, professional_id, criterion, detail, has_served)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, c.ID, c.RunID, c.OrderID, c.ClientTaxID, c.ServiceDate,
			c.Rank, c.ProfessionalID, c.Criterion, c.Detail, c.HasServed)
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCandidates retrieves candidate records for a run, ordered for display
func (d *DB) GetCandidates(ctx context.Context, runID string) ([]db.Candidate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, order_id, client_tax_id, service_date,
			rank, professional_id, criterion, detail, has_served
		FROM candidate
		WHERE run_id = $1
		ORDER BY service_date, order_id, rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []db.Candidate
	for rows.Next() {
		var c db.Candidate
		var serviceDate time.Time
		if err := rows.Scan(&c.ID, &c.RunID, &c.OrderID, &c.ClientTaxID, &serviceDate,
			&c.Rank, &c.ProfessionalID, &c.Criterion, &c.Detail, &c.HasServed); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.ServiceDate = serviceDate.Format("2006-01-02")
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}

	return candidates, nil
}
