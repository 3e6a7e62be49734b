package engine

import (
	"go.uber.org/zap"

	"github.com/vavive/rotas/pkg/core/model"
)

// runResidualPass solves a min-cost bipartite assignment for the day's orders
// the greedy tiers left unresolved, then emits one audit record per pending
// order comparing the result against the locally nearest eligible
// professional.
func runResidualPass(
	day string,
	sorted []model.ServiceOrder,
	lookup *Lookup,
	dist *DistanceIndex,
	state *DayState,
	firstSlots map[string]firstSlot,
	logger *zap.Logger,
) []AuditRecord {
	var pending []model.ServiceOrder
	for _, order := range sorted {
		if _, done := firstSlots[order.ID]; !done {
			pending = append(pending, order)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	var free []string
	for _, id := range lookup.EligibleIDs() {
		if !state.IsOccupied(id) {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		logger.Info("skipping residual pass, no free eligible professionals",
			zap.String("day", day),
			zap.Int("pending_orders", len(pending)))
		return nil
	}

	// Cost matrix: rows = pending orders, columns = free professionals.
	// Blocked, reserved-for-another and unknown-distance pairs get the
	// penalty so the solver can never profitably pick them.
	cost := make([][]float64, len(pending))
	feasible := make([][]bool, len(pending))
	for i, order := range pending {
		cost[i] = make([]float64, len(free))
		feasible[i] = make([]bool, len(free))
		for j, id := range free {
			if lookup.IsBlocked(order.ClientTaxID, id) ||
				state.ReservedForOther(id, order.ClientTaxID) {
				cost[i][j] = DefaultPenaltyCost
				continue
			}
			d, ok := dist.Km(order.ClientTaxID, id)
			if !ok {
				cost[i][j] = DefaultPenaltyCost
				continue
			}
			cost[i][j] = d
			feasible[i][j] = true
		}
	}

	assigned := solveAssignment(cost, DefaultPenaltyCost)
	for i, j := range assigned {
		if j < 0 || cost[i][j] >= DefaultPenaltyCost {
			continue
		}
		order := pending[i]
		assignFirstSlot(order, free[j], CriterionOptimizedNearest, lookup, dist, state, firstSlots)
	}

	// Audit every pending order, including ones the penalty left unresolved
	audits := make([]AuditRecord, 0, len(pending))
	for i, order := range pending {
		audit := AuditRecord{
			OrderID:     order.ID,
			ClientTaxID: order.ClientTaxID,
			Date:        order.Date,
		}
		if slot, resolved := firstSlots[order.ID]; resolved {
			audit.AssignedID = slot.professionalID
			if d, ok := dist.Km(order.ClientTaxID, slot.professionalID); ok {
				audit.AssignedKm = &d
			}
		}

		bestJ := -1
		for j := range free {
			if !feasible[i][j] {
				continue
			}
			if bestJ < 0 || cost[i][j] < cost[i][bestJ] {
				bestJ = j
			}
		}
		if bestJ >= 0 {
			audit.NearestID = free[bestJ]
			nearest := cost[i][bestJ]
			audit.NearestKm = &nearest
			if audit.NearestID != audit.AssignedID {
				audit.Reason = "optimal allocation elsewhere: another order needed this professional more, keeping day-wide non-repetition"
			}
		}
		audits = append(audits, audit)
	}
	return audits
}
