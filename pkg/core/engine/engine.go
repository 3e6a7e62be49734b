// Package engine implements the multi-tier assignment engine: for each
// service order on a day it produces a ranked list of up to K candidate
// professionals under client preference, history, favorite-quota, proximity
// and blocklist rules, with a min-cost bipartite pass for whatever the
// greedy tiers leave unresolved.
package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vavive/rotas/pkg/core/model"
)

// Engine runs deterministic scheduling passes over fully materialized inputs
type Engine struct {
	params Params
	logger *zap.Logger
}

// New creates an engine, rejecting out-of-range parameters
func New(params Params, logger *zap.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine parameters: %w", err)
	}
	return &Engine{params: params, logger: logger}, nil
}

// Run executes one scheduling run: distance index, lookup indices, then for
// each day (ascending) the fixed pass order — preference reservation, greedy
// tiers, favorite quota, residual optimal assignment, candidate lists.
// Orders not resolving to a known client are a fatal input error.
func (e *Engine) Run(in Inputs) (*Result, error) {
	lookup := NewLookup(in)
	for _, order := range in.Orders {
		if _, ok := lookup.Client(order.ClientTaxID); !ok {
			return nil, fmt.Errorf("order %s references unknown client %s", order.ID, order.ClientTaxID)
		}
	}

	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	e.logger.Debug("distance index built",
		zap.Int("pairs", dist.Len()),
		zap.Int("clients", len(in.Clients)),
		zap.Int("professionals", len(in.Professionals)))

	byDay := make(map[string][]model.ServiceOrder)
	var days []string
	for _, order := range in.Orders {
		day := order.Day()
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], order)
	}
	sort.Strings(days)

	result := &Result{}
	for _, day := range days {
		sorted := sortOrdersForDay(byDay[day])
		state := NewDayState()
		firstSlots := make(map[string]firstSlot, len(sorted))

		runPreferenceReservations(sorted, lookup, dist, state)
		runGreedyTiers(sorted, lookup, dist, state, firstSlots, e.logger)
		if e.params.GuaranteeFavoriteQuota {
			runFavoriteQuota(sorted, in.Favorites, e.params, lookup, dist, state, firstSlots)
		}
		audits := runResidualPass(day, sorted, lookup, dist, state, firstSlots, e.logger)
		result.Audits = append(result.Audits, audits...)

		for _, order := range sorted {
			rec := buildCandidateList(order, e.params, lookup, dist, state, firstSlots, in.Favorites, in.LowAvailability)
			result.Assignments = append(result.Assignments, rec)
		}

		e.logger.Info("day scheduled",
			zap.String("day", day),
			zap.Int("orders", len(sorted)),
			zap.Int("resolved_first_slots", len(firstSlots)),
			zap.Int("audits", len(audits)))
	}

	return result, nil
}
