package engine

import (
	"sort"

	"github.com/vavive/rotas/pkg/core/model"
)

// reservationCandidate is one client order contending for a preferred
// professional on a given day
type reservationCandidate struct {
	clientTaxID    string
	professionalID string
	historyCount   int
	distanceKm     float64
	entry          model.EntryTime
}

// runPreferenceReservations pre-commits each contended preferred professional
// to a single client for the day. When two clients share a preferred
// professional, the one with more history wins, then the closer one, then the
// earlier entry time, then the lexically smaller client key.
func runPreferenceReservations(orders []model.ServiceOrder, lookup *Lookup, dist *DistanceIndex, state *DayState) {
	byProfessional := make(map[string][]reservationCandidate)

	// One candidate per order, not per client: a client with several orders
	// that day contends once per order so the best pairing can use the
	// earliest entry time
	for _, order := range orders {
		prefID, ok := lookup.PreferredFor(order.ClientTaxID)
		if !ok || prefID == "" {
			continue
		}
		if lookup.IsBlocked(order.ClientTaxID, prefID) || !lookup.IsEligible(prefID) {
			continue
		}
		byProfessional[prefID] = append(byProfessional[prefID], reservationCandidate{
			clientTaxID:    order.ClientTaxID,
			professionalID: prefID,
			historyCount:   lookup.HistoryCount(order.ClientTaxID, prefID),
			distanceKm:     kmOrInf(dist, order.ClientTaxID, prefID),
			entry:          model.ParseEntryTime(order.EntryTime),
		})
	}

	for prefID, contenders := range byProfessional {
		sort.Slice(contenders, func(i, j int) bool {
			a, b := contenders[i], contenders[j]
			if a.historyCount != b.historyCount {
				return a.historyCount > b.historyCount
			}
			if a.distanceKm != b.distanceKm {
				return a.distanceKm < b.distanceKm
			}
			if a.entry != b.entry {
				return a.entry.Before(b.entry)
			}
			return a.clientTaxID < b.clientTaxID
		})
		state.Reserve(prefID, contenders[0].clientTaxID)
	}
}
