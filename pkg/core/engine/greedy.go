package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vavive/rotas/pkg/core/model"
)

// firstSlot is a resolved slot-1 assignment for one order
type firstSlot struct {
	professionalID string
	criterion      string
	detail         string
}

// sortOrdersForDay orders a day's work so earlier and longer jobs get first
// pick. Order ID is the final tie-break to keep runs reproducible.
func sortOrdersForDay(orders []model.ServiceOrder) []model.ServiceOrder {
	sorted := make([]model.ServiceOrder, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		at, bt := model.ParseEntryTime(a.EntryTime), model.ParseEntryTime(b.EntryTime)
		if at != bt {
			return at.Before(bt)
		}
		if a.DurationHours != b.DurationHours {
			return a.DurationHours > b.DurationHours
		}
		return a.ID < b.ID
	})
	return sorted
}

// criterionDetail renders the display annotation for a candidate from the
// same structured counts and distance used for ranking
func criterionDetail(lookup *Lookup, dist *DistanceIndex, clientTaxID, professionalID string) string {
	detail := fmt.Sprintf("client: %d | total: %d",
		lookup.HistoryCount(clientTaxID, professionalID),
		lookup.TotalCount(professionalID))
	if d, ok := dist.Km(clientTaxID, professionalID); ok {
		detail += fmt.Sprintf(" — %.2f km", d)
	}
	return detail
}

// runGreedyTiers resolves first slots for a day's orders through the
// preference, most-served and last-server tiers, in the sorted order
func runGreedyTiers(
	sorted []model.ServiceOrder,
	lookup *Lookup,
	dist *DistanceIndex,
	state *DayState,
	firstSlots map[string]firstSlot,
	logger *zap.Logger,
) {
	for _, order := range sorted {
		if _, done := firstSlots[order.ID]; done {
			continue
		}

		// Tier 1: the day's reservation for this client
		if prefID, ok := lookup.PreferredFor(order.ClientTaxID); ok && prefID != "" {
			if owner, reserved := state.ReservedOwner(prefID); reserved && owner == order.ClientTaxID {
				if !lookup.IsBlocked(order.ClientTaxID, prefID) &&
					!state.IsOccupied(prefID) &&
					lookup.IsEligible(prefID) {
					assignFirstSlot(order, prefID, CriterionClientPreference, lookup, dist, state, firstSlots)
					continue
				}
			}
		}

		// Tier 2: most served within the history window, nearest first
		assigned := false
		for _, id := range lookup.MostServed(order.ClientTaxID, dist) {
			if lookup.IsBlocked(order.ClientTaxID, id) || state.IsOccupied(id) ||
				state.ReservedForOther(id, order.ClientTaxID) || !lookup.IsEligible(id) {
				continue
			}
			assignFirstSlot(order, id, CriterionMostServed, lookup, dist, state, firstSlots)
			assigned = true
			break
		}
		if assigned {
			continue
		}

		// Tier 3: most recent professional to serve this client
		if lastID, ok := lookup.LastServer(order.ClientTaxID); ok {
			if !lookup.IsBlocked(order.ClientTaxID, lastID) &&
				!state.IsOccupied(lastID) &&
				!state.ReservedForOther(lastID, order.ClientTaxID) &&
				lookup.IsEligible(lastID) {
				assignFirstSlot(order, lastID, CriterionLastServer, lookup, dist, state, firstSlots)
				continue
			}
		}

		logger.Debug("order unresolved by greedy tiers",
			zap.String("order_id", order.ID),
			zap.String("client", order.ClientTaxID))
	}
}

// runFavoriteQuota gives each curated favorite one shot per day: the first
// still-unresolved order within the radius whose client has not blocked them.
// Favorites already occupied (or already suggested, when day-wide
// de-duplication is on) are skipped.
func runFavoriteQuota(
	sorted []model.ServiceOrder,
	favorites []string,
	params Params,
	lookup *Lookup,
	dist *DistanceIndex,
	state *DayState,
	firstSlots map[string]firstSlot,
) {
	for _, favID := range favorites {
		if state.IsOccupied(favID) {
			continue
		}
		if params.AvoidRepeatAcrossDay && state.IsSuggested(favID) {
			continue
		}
		if !lookup.IsEligible(favID) {
			continue
		}
		for _, order := range sorted {
			if _, done := firstSlots[order.ID]; done {
				continue
			}
			if lookup.IsBlocked(order.ClientTaxID, favID) ||
				state.ReservedForOther(favID, order.ClientTaxID) {
				continue
			}
			d, ok := dist.Km(order.ClientTaxID, favID)
			if !ok || d > params.FavoriteRadiusKm {
				continue
			}
			assignFirstSlot(order, favID, CriterionFavoriteQuota, lookup, dist, state, firstSlots)
			break
		}
	}
}

// assignFirstSlot records a slot-1 resolution and updates the day state
func assignFirstSlot(
	order model.ServiceOrder,
	professionalID, criterion string,
	lookup *Lookup,
	dist *DistanceIndex,
	state *DayState,
	firstSlots map[string]firstSlot,
) {
	firstSlots[order.ID] = firstSlot{
		professionalID: professionalID,
		criterion:      criterion,
		detail:         criterionDetail(lookup, dist, order.ClientTaxID, professionalID),
	}
	state.MarkOccupied(professionalID)
	state.MarkSuggested(professionalID)
}
