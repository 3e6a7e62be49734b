package engine

import (
	"sort"

	"github.com/vavive/rotas/pkg/core/model"
)

// listBuilder accumulates one order's ranked candidate list under the
// day-wide exclusion rules
type listBuilder struct {
	order  model.ServiceOrder
	params Params
	lookup *Lookup
	dist   *DistanceIndex
	state  *DayState

	used       map[string]bool
	candidates []Candidate
}

// full reports whether the list reached K entries
func (b *listBuilder) full() bool {
	return len(b.candidates) >= b.params.MaxCandidates
}

// add appends a professional if every filter passes: list not full, not
// already on this order, not blocked, not occupied, not reserved for another
// client, eligible, and not suggested elsewhere that day when day-wide
// de-duplication is on
func (b *listBuilder) add(professionalID, criterion string) bool {
	if b.params.AvoidRepeatAcrossDay && b.state.IsSuggested(professionalID) {
		return false
	}
	return b.addAllowingSuggested(professionalID, criterion)
}

// addAllowingSuggested applies every filter except the day-wide suggested
// exclusion. The low-availability filler tier uses it directly, since that
// tier only offers professionals that some other list already carries.
func (b *listBuilder) addAllowingSuggested(professionalID, criterion string) bool {
	if b.full() {
		return false
	}
	if b.used[professionalID] {
		return false
	}
	if b.lookup.IsBlocked(b.order.ClientTaxID, professionalID) {
		return false
	}
	if b.state.IsOccupied(professionalID) {
		return false
	}
	if !b.lookup.IsEligible(professionalID) {
		return false
	}
	if b.state.ReservedForOther(professionalID, b.order.ClientTaxID) {
		return false
	}

	b.candidates = append(b.candidates, Candidate{
		Rank:           len(b.candidates) + 1,
		ProfessionalID: professionalID,
		Criterion:      criterion,
		Detail:         criterionDetail(b.lookup, b.dist, b.order.ClientTaxID, professionalID),
		HasServed:      b.lookup.HistoryCount(b.order.ClientTaxID, professionalID) > 0,
	})
	b.used[professionalID] = true
	if b.params.AvoidRepeatAcrossDay {
		b.state.MarkSuggested(professionalID)
	}
	return true
}

// buildCandidateList assembles the final ranked list for one order. Slot 1
// comes from the greedy/residual passes; a "Client preference" hit is
// conclusive and ends the list at one entry.
func buildCandidateList(
	order model.ServiceOrder,
	params Params,
	lookup *Lookup,
	dist *DistanceIndex,
	state *DayState,
	firstSlots map[string]firstSlot,
	favorites []string,
	lowAvailability []string,
) AssignmentRecord {
	b := &listBuilder{
		order:  order,
		params: params,
		lookup: lookup,
		dist:   dist,
		state:  state,
		used:   make(map[string]bool),
	}

	if slot, ok := firstSlots[order.ID]; ok {
		b.candidates = append(b.candidates, Candidate{
			Rank:           1,
			ProfessionalID: slot.professionalID,
			Criterion:      slot.criterion,
			Detail:         slot.detail,
			HasServed:      lookup.HistoryCount(order.ClientTaxID, slot.professionalID) > 0,
		})
		b.used[slot.professionalID] = true

		if slot.criterion == CriterionClientPreference {
			return record(order, b.candidates)
		}
	}

	// Most served: every professional tied at the maximum, nearest first
	for _, id := range lookup.MostServed(order.ClientTaxID, dist) {
		if b.full() {
			break
		}
		b.add(id, CriterionMostServed)
	}

	// Last server
	if !b.full() {
		if lastID, ok := lookup.LastServer(order.ClientTaxID); ok {
			b.add(lastID, CriterionLastServer)
		}
	}

	// Favorites within the radius, by distance
	if !b.full() {
		b.addFavorites(favorites)
	}

	// Nearest geography with the minimum-gap rule
	if !b.full() {
		b.addNearest()
	}

	// Low-availability filler: only professionals already suggested somewhere
	// that day, never the first list to propose them
	if !b.full() {
		for _, id := range lowAvailability {
			if b.full() {
				break
			}
			if !state.IsSuggested(id) {
				continue
			}
			b.addAllowingSuggested(id, CriterionLowAvailability)
		}
	}

	return record(order, b.candidates)
}

// addFavorites appends in-radius favorites sorted by distance
func (b *listBuilder) addFavorites(favorites []string) {
	type favDist struct {
		id string
		km float64
	}
	var inRadius []favDist
	for _, id := range favorites {
		if b.params.AvoidRepeatAcrossDay && b.state.IsSuggested(id) {
			continue
		}
		if b.state.IsOccupied(id) {
			continue
		}
		d, ok := b.dist.Km(b.order.ClientTaxID, id)
		if !ok || d > b.params.FavoriteRadiusKm {
			continue
		}
		inRadius = append(inRadius, favDist{id: id, km: d})
	}
	sort.SliceStable(inRadius, func(i, j int) bool {
		return inRadius[i].km < inRadius[j].km
	})
	for _, f := range inRadius {
		if b.full() {
			break
		}
		b.add(f.id, CriterionFavoriteNearby)
	}
}

// addNearest appends geographically nearest professionals, only accepting a
// further candidate once its distance clears the previous accepted one by at
// least the configured delta
func (b *listBuilder) addNearest() {
	type profDist struct {
		id string
		km float64
	}
	var ranked []profDist
	for _, id := range b.lookup.EligibleIDs() {
		d, ok := b.dist.Km(b.order.ClientTaxID, id)
		if !ok {
			continue
		}
		ranked = append(ranked, profDist{id: id, km: d})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].km != ranked[j].km {
			return ranked[i].km < ranked[j].km
		}
		return ranked[i].id < ranked[j].id
	})

	var lastKm *float64
	for _, p := range ranked {
		if b.full() {
			break
		}
		if lastKm != nil && p.km < *lastKm+b.params.DistanceDeltaKm {
			continue
		}
		if b.add(p.id, CriterionNearest) {
			km := p.km
			lastKm = &km
		}
	}
}

func record(order model.ServiceOrder, candidates []Candidate) AssignmentRecord {
	return AssignmentRecord{
		OrderID:     order.ID,
		ClientTaxID: order.ClientTaxID,
		Date:        order.Date,
		Candidates:  candidates,
	}
}
