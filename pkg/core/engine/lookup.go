package engine

import (
	"sort"

	"github.com/vavive/rotas/pkg/core/model"
)

// Lookup answers eligibility, history and relationship questions in O(1)
// after construction. It never mutates once built.
type Lookup struct {
	professionals map[string]model.Professional
	clients       map[string]model.Client

	// historyCount counts trailing-window visits per (client, professional),
	// clientCounts holds the same counts grouped by client
	historyCount map[pairKey]int
	clientCounts map[string]map[string]int

	// totalCount counts trailing-window visits per professional across clients
	totalCount map[string]int

	// lastServer is the professional of the most recent visit per client
	lastServer map[string]string

	blocked   map[string]map[string]bool
	preferred map[string]string
}

// NewLookup builds all indices from the input tables
// History is expected to already be windowed (trailing 60 days, non-cancelled)
func NewLookup(in Inputs) *Lookup {
	l := &Lookup{
		professionals: make(map[string]model.Professional, len(in.Professionals)),
		clients:       make(map[string]model.Client, len(in.Clients)),
		historyCount:  make(map[pairKey]int),
		clientCounts:  make(map[string]map[string]int),
		totalCount:    make(map[string]int),
		lastServer:    make(map[string]string),
		blocked:       make(map[string]map[string]bool),
		preferred:     make(map[string]string, len(in.Preferences)),
	}

	for _, p := range in.Professionals {
		l.professionals[p.ID] = p
	}
	for _, c := range in.Clients {
		l.clients[c.TaxID] = c
	}

	// Most recent visit wins the last-server slot; sort a copy so input
	// permutations cannot change the answer
	visits := make([]model.Visit, len(in.History))
	copy(visits, in.History)
	sort.SliceStable(visits, func(i, j int) bool {
		if !visits[i].Date.Equal(visits[j].Date) {
			return visits[i].Date.Before(visits[j].Date)
		}
		return visits[i].ProfessionalID < visits[j].ProfessionalID
	})
	for _, v := range visits {
		l.historyCount[pairKey{v.ClientTaxID, v.ProfessionalID}]++
		l.totalCount[v.ProfessionalID]++
		l.lastServer[v.ClientTaxID] = v.ProfessionalID

		counts, ok := l.clientCounts[v.ClientTaxID]
		if !ok {
			counts = make(map[string]int)
			l.clientCounts[v.ClientTaxID] = counts
		}
		counts[v.ProfessionalID]++
	}

	for _, b := range in.Blocks {
		set, ok := l.blocked[b.ClientTaxID]
		if !ok {
			set = make(map[string]bool)
			l.blocked[b.ClientTaxID] = set
		}
		set[b.ProfessionalID] = true
	}

	for _, p := range in.Preferences {
		l.preferred[p.ClientTaxID] = p.ProfessionalID
	}

	return l
}

// Client returns the client record for a tax ID
func (l *Lookup) Client(taxID string) (model.Client, bool) {
	c, ok := l.clients[taxID]
	return c, ok
}

// Professional returns the professional record for an ID
func (l *Lookup) Professional(id string) (model.Professional, bool) {
	p, ok := l.professionals[id]
	return p, ok
}

// IsEligible reports whether a professional is active and located
func (l *Lookup) IsEligible(professionalID string) bool {
	p, ok := l.professionals[professionalID]
	return ok && p.Active && p.Coord != nil
}

// IsBlocked reports whether a client has blocked a professional
func (l *Lookup) IsBlocked(clientTaxID, professionalID string) bool {
	return l.blocked[clientTaxID][professionalID]
}

// HistoryCount returns trailing-window visits between a client and a professional
func (l *Lookup) HistoryCount(clientTaxID, professionalID string) int {
	return l.historyCount[pairKey{clientTaxID, professionalID}]
}

// TotalCount returns a professional's trailing-window visits across all clients
func (l *Lookup) TotalCount(professionalID string) int {
	return l.totalCount[professionalID]
}

// LastServer returns the professional of a client's most recent visit
func (l *Lookup) LastServer(clientTaxID string) (string, bool) {
	id, ok := l.lastServer[clientTaxID]
	return id, ok
}

// PreferredFor returns the client's configured preferred professional
func (l *Lookup) PreferredFor(clientTaxID string) (string, bool) {
	id, ok := l.preferred[clientTaxID]
	return id, ok
}

// MostServed returns the professionals tied at the client's maximum
// trailing-window visit count, sorted by distance ascending (unknown
// distances last, ID as final tie-break). Blocked, ineligible and occupied
// professionals are excluded by the caller's filter.
func (l *Lookup) MostServed(clientTaxID string, dist *DistanceIndex) []string {
	counts := l.clientCounts[clientTaxID]
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return nil
	}

	var tied []string
	for id, n := range counts {
		if n == max {
			tied = append(tied, id)
		}
	}
	sort.Slice(tied, func(i, j int) bool {
		di := kmOrInf(dist, clientTaxID, tied[i])
		dj := kmOrInf(dist, clientTaxID, tied[j])
		if di != dj {
			return di < dj
		}
		return tied[i] < tied[j]
	})
	return tied
}

// EligibleIDs returns every eligible professional ID in deterministic order
func (l *Lookup) EligibleIDs() []string {
	ids := make([]string, 0, len(l.professionals))
	for id := range l.professionals {
		if l.IsEligible(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// kmOrInf treats a missing distance as unusably far
func kmOrInf(dist *DistanceIndex, clientTaxID, professionalID string) float64 {
	if d, ok := dist.Km(clientTaxID, professionalID); ok {
		return d
	}
	return DefaultPenaltyCost
}
