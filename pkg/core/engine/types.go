package engine

import (
	"time"

	"github.com/vavive/rotas/pkg/core/model"
)

// Criterion names attached to candidates, in the operator's vocabulary
const (
	CriterionClientPreference = "Client preference"
	CriterionMostServed       = "Most served this client"
	CriterionLastServer       = "Last professional to serve this client"
	CriterionFavoriteQuota    = "Favorite minimum quota"
	CriterionOptimizedNearest = "Nearest geographically (optimized)"
	CriterionNearest          = "Nearest geographically"
	CriterionFavoriteNearby   = "Platform favorite within radius"
	CriterionLowAvailability  = "Low availability"
)

// Inputs are the fully materialized, pre-normalized tables a run consumes
// Orders must resolve to a known client and carry a locatable client;
// unlocatable orders are routed elsewhere by the caller and never reach here
type Inputs struct {
	Clients         []model.Client
	Professionals   []model.Professional
	Preferences     []model.PreferenceLink
	Blocks          []model.BlockLink
	Favorites       []string // professional IDs, curated order preserved
	LowAvailability []string // professional IDs, curated order preserved
	Orders          []model.ServiceOrder
	History         []model.Visit // trailing 60-day, non-cancelled visits
}

// Candidate is one ranked professional on an order's list
type Candidate struct {
	Rank           int
	ProfessionalID string

	// Criterion is the tier that produced this candidate
	Criterion string

	// Detail carries the display annotation, e.g. "client: 3 | total: 41 — 2.15 km"
	Detail string

	// HasServed reports whether this professional has served the order's
	// client within the history window
	HasServed bool
}

// AssignmentRecord is the engine's output for one service order
// The candidate list may be empty when no professional is eligible
type AssignmentRecord struct {
	OrderID     string
	ClientTaxID string
	Date        time.Time
	Candidates  []Candidate
}

// AuditRecord compares a residual-pass assignment against the locally
// nearest eligible professional for the same order
type AuditRecord struct {
	OrderID     string
	ClientTaxID string
	Date        time.Time

	AssignedID string
	AssignedKm *float64

	NearestID string
	NearestKm *float64

	// Reason is non-empty when global optimization sacrificed local
	// optimality for another order's benefit
	Reason string
}

// Result is the full outcome of one scheduling run
type Result struct {
	Assignments []AssignmentRecord
	Audits      []AuditRecord
}
