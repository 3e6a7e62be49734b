package engine

import "fmt"

// Parameter bounds and defaults for the assignment engine
const (
	MinCandidatesPerOrder = 1
	MaxCandidatesPerOrder = 30

	DefaultMaxCandidates    = 4
	DefaultFavoriteRadiusKm = 5.0
	DefaultDistanceDeltaKm  = 1.0
	DefaultPenaltyCost      = 1e6
)

// Params holds the tunable knobs of a scheduling run
// Values are expected to be clamped by the caller (internal/config does this);
// an out-of-range MaxCandidates is treated as a precondition violation
type Params struct {
	// MaxCandidates is K, the cap on ranked professionals per order (1..30)
	MaxCandidates int

	// FavoriteRadiusKm bounds the favorite-quota pass and the favorites
	// candidate tier
	FavoriteRadiusKm float64

	// DistanceDeltaKm is the minimum gap between successive
	// nearest-geography candidates on one order's list
	DistanceDeltaKm float64

	// AvoidRepeatAcrossDay excludes professionals already suggested on any
	// order that day from reappearing on another order's list
	AvoidRepeatAcrossDay bool

	// GuaranteeFavoriteQuota enables the once-per-day favorite pass
	GuaranteeFavoriteQuota bool
}

// DefaultParams returns the production defaults
func DefaultParams() Params {
	return Params{
		MaxCandidates:          DefaultMaxCandidates,
		FavoriteRadiusKm:       DefaultFavoriteRadiusKm,
		DistanceDeltaKm:        DefaultDistanceDeltaKm,
		AvoidRepeatAcrossDay:   true,
		GuaranteeFavoriteQuota: true,
	}
}

// Validate checks the precondition on MaxCandidates
func (p Params) Validate() error {
	if p.MaxCandidates < MinCandidatesPerOrder || p.MaxCandidates > MaxCandidatesPerOrder {
		return fmt.Errorf("max candidates per order must be between %d and %d, got %d",
			MinCandidatesPerOrder, MaxCandidatesPerOrder, p.MaxCandidates)
	}
	return nil
}
