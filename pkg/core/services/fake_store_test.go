package services

import (
	"context"
	"fmt"

	"github.com/vavive/rotas/pkg/db"
)

// fakeStore is an in-memory db.ScheduleStore for service tests
type fakeStore struct {
	runs       []db.ScheduleRun
	candidates []db.Candidate
	audits     []db.ProximityAudit

	failInserts bool
}

func (s *fakeStore) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun) error {
	if s.failInserts {
		return fmt.Errorf("store unavailable")
	}
	s.runs = append(s.runs, *run)
	return nil
}

func (s *fakeStore) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	// Most recent first, matching the SQL implementation
	out := make([]db.ScheduleRun, len(s.runs))
	for i, run := range s.runs {
		out[len(s.runs)-1-i] = run
	}
	return out, nil
}

func (s *fakeStore) GetLatestScheduleRun(ctx context.Context) (*db.ScheduleRun, error) {
	if len(s.runs) == 0 {
		return nil, nil
	}
	latest := s.runs[len(s.runs)-1]
	return &latest, nil
}

func (s *fakeStore) InsertCandidates(ctx context.Context, candidates []db.Candidate) error {
	if s.failInserts {
		return fmt.Errorf("store unavailable")
	}
	s.candidates = append(s.candidates, candidates...)
	return nil
}

func (s *fakeStore) GetCandidates(ctx context.Context, runID string) ([]db.Candidate, error) {
	var out []db.Candidate
	for _, c := range s.candidates {
		if c.RunID == runID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertProximityAudits(ctx context.Context, audits []db.ProximityAudit) error {
	if s.failInserts {
		return fmt.Errorf("store unavailable")
	}
	s.audits = append(s.audits, audits...)
	return nil
}

func (s *fakeStore) GetProximityAudits(ctx context.Context, runID string) ([]db.ProximityAudit, error) {
	var out []db.ProximityAudit
	for _, a := range s.audits {
		if a.RunID == runID {
			out = append(out, a)
		}
	}
	return out, nil
}
