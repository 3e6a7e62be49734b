package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vavive/rotas/pkg/core/engine"
	"github.com/vavive/rotas/pkg/db"
)

// RunScheduleArgs carries everything one scheduling run needs
type RunScheduleArgs struct {
	Inputs engine.Inputs
	Params engine.Params
	RunAt  time.Time
}

// RunScheduleResult represents the outcome of a persisted scheduling run
type RunScheduleResult struct {
	Run         *db.ScheduleRun
	Assignments []engine.AssignmentRecord
	Audits      []engine.AuditRecord

	// ResolvedOrders counts orders that received at least one candidate
	ResolvedOrders   int
	UnresolvedOrders int
}

// RunSchedule executes the assignment engine over the loaded inputs and
// persists the run, its ranked candidates, and its proximity audits
func RunSchedule(ctx context.Context, store db.ScheduleStore, logger *zap.Logger, args RunScheduleArgs) (*RunScheduleResult, error) {
	eng, err := engine.New(args.Params, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	logger.Debug("Running schedule",
		zap.Int("orders", len(args.Inputs.Orders)),
		zap.Int("professionals", len(args.Inputs.Professionals)),
		zap.Int("max_candidates", args.Params.MaxCandidates))

	result, err := eng.Run(args.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to run schedule: %w", err)
	}

	run := &db.ScheduleRun{
		ID:            uuid.New().String(),
		RunAt:         args.RunAt.UTC().Format(time.RFC3339),
		MaxCandidates: args.Params.MaxCandidates,
		OrderCount:    len(args.Inputs.Orders),
	}

	candidates := make([]db.Candidate, 0, len(result.Assignments)*args.Params.MaxCandidates)
	resolved := 0
	for _, assignment := range result.Assignments {
		if len(assignment.Candidates) > 0 {
			resolved++
		}
		for _, candidate := range assignment.Candidates {
			candidates = append(candidates, db.Candidate{
				ID:             uuid.New().String(),
				RunID:          run.ID,
				OrderID:        assignment.OrderID,
				ClientTaxID:    assignment.ClientTaxID,
				ServiceDate:    assignment.Date.Format("2006-01-02"),
				Rank:           candidate.Rank,
				ProfessionalID: candidate.ProfessionalID,
				Criterion:      candidate.Criterion,
				Detail:         candidate.Detail,
				HasServed:      candidate.HasServed,
			})
		}
	}

	audits := make([]db.ProximityAudit, 0, len(result.Audits))
	for _, audit := range result.Audits {
		audits = append(audits, db.ProximityAudit{
			ID:          uuid.New().String(),
			RunID:       run.ID,
			OrderID:     audit.OrderID,
			ClientTaxID: audit.ClientTaxID,
			ServiceDate: audit.Date.Format("2006-01-02"),
			AssignedID:  audit.AssignedID,
			AssignedKm:  audit.AssignedKm,
			NearestID:   audit.NearestID,
			NearestKm:   audit.NearestKm,
			Reason:      audit.Reason,
		})
	}

	if err := store.InsertScheduleRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to insert schedule run: %w", err)
	}
	if err := store.InsertCandidates(ctx, candidates); err != nil {
		return nil, fmt.Errorf("failed to insert candidates: %w", err)
	}
	if err := store.InsertProximityAudits(ctx, audits); err != nil {
		return nil, fmt.Errorf("failed to insert proximity audits: %w", err)
	}

	logger.Info("Schedule run persisted",
		zap.String("run_id", run.ID),
		zap.Int("orders", run.OrderCount),
		zap.Int("resolved", resolved),
		zap.Int("candidates", len(candidates)),
		zap.Int("audits", len(audits)))

	return &RunScheduleResult{
		Run:              run,
		Assignments:      result.Assignments,
		Audits:           result.Audits,
		ResolvedOrders:   resolved,
		UnresolvedOrders: len(result.Assignments) - resolved,
	}, nil
}
