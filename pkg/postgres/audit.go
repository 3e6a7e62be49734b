package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vavive/rotas/pkg/db"
)

// InsertProximityAudits inserts residual-pass audit records for a schedule run
func (d *DB) InsertProximityAudits(ctx context.Context, audits []db.ProximityAudit) error {
	if len(audits) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range audits {
		_, err := tx.Exec(ctx, `
			INSERT INTO proximity_audit (id, run_id, order_id, client_tax_id, service_date,
				assigned_id, assigned_km, nearest_id, nearest_km, reason)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, a.ID, a.RunID, a.OrderID, a.ClientTaxID, a.ServiceDate,
			a.AssignedID, a.AssignedKm, a.NearestID, a.NearestKm, a.Reason)
		if err != nil {
			return fmt.Errorf("failed to insert proximity audit: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetProximityAudits retrieves audit records for a run, ordered for display
func (d *DB) GetProximityAudits(ctx context.Context, runID string) ([]db.ProximityAudit, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, order_id, client_tax_id, service_date,
			assigned_id, assigned_km, nearest_id, nearest_km, reason
		FROM proximity_audit
		WHERE run_id = $1
		ORDER BY service_date, order_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query proximity audits: %w", err)
	}
	defer rows.Close()

	var audits []db.ProximityAudit
	for rows.Next() {
		var a db.ProximityAudit
		var serviceDate time.Time
		if err := rows.Scan(&a.ID, &a.RunID, &a.OrderID, &a.ClientTaxID, &serviceDate,
			&a.AssignedID, &a.AssignedKm, &a.NearestID, &a.NearestKm, &a.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan proximity audit: %w", err)
		}
		a.ServiceDate = serviceDate.Format("2006-01-02")
		audits = append(audits, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proximity audits: %w", err)
	}

	return audits, nil
}
