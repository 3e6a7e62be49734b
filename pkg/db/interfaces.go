package db

import "context"

// ScheduleStore defines the interface for schedule persistence
// postgres.DB implements it; tests use an in-memory fake
type ScheduleStore interface {
	InsertScheduleRun(ctx context.Context, run *ScheduleRun) error
	GetScheduleRuns(ctx context.Context) ([]ScheduleRun, error)
	GetLatestScheduleRun(ctx context.Context) (*ScheduleRun, error)

	InsertCandidates(ctx context.Context, candidates []Candidate) error
	GetCandidates(ctx context.Context, runID string) ([]Candidate, error)

	InsertProximityAudits(ctx context.Context, audits []ProximityAudit) error
	GetProximityAudits(ctx context.Context, runID string) ([]ProximityAudit, error)
}
