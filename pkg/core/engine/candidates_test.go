package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vavive/rotas/pkg/core/model"
)

func TestCandidateList_PreferenceHitIsConclusive(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("pref", 0.01),
			testProfessional("other-1", 0.02),
			testProfessional("other-2", 0.04),
		},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)
	firstSlots := map[string]firstSlot{
		"os-1": {professionalID: "pref", criterion: CriterionClientPreference, detail: "client: 3 | total: 41 — 1.11 km"},
	}

	rec := buildCandidateList(order, DefaultParams(), lookup, dist, state, firstSlots, nil, nil)

	assert.Len(t, rec.Candidates, 1, "a preference hit ends the list")
	assert.Equal(t, "pref", rec.Candidates[0].ProfessionalID)
	assert.Equal(t, 1, rec.Candidates[0].Rank)
}

func TestCandidateList_NoDuplicateProfessionals(t *testing.T) {
	// p1 is both the most-served and the last server; it must appear once
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("p1", 0.01),
			testProfessional("p2", 0.03),
		},
		History: visitsOn("100", "p1", "2024-05-01", "2024-06-01"),
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	rec := buildCandidateList(order, DefaultParams(), lookup, dist, state, map[string]firstSlot{}, nil, nil)

	seen := make(map[string]bool)
	for _, c := range rec.Candidates {
		assert.False(t, seen[c.ProfessionalID], "duplicate candidate %s", c.ProfessionalID)
		seen[c.ProfessionalID] = true
	}
	assert.True(t, seen["p1"])
	assert.True(t, seen["p2"])
}

func TestCandidateList_DistanceGapRule(t *testing.T) {
	// Professionals at 1.11, 1.67, 2.22 and 3.34 km; with a 1 km delta the
	// 1.67 km option is a near-duplicate of the 1.11 km one and is skipped
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("a", 0.01),
			testProfessional("b", 0.015),
			testProfessional("c", 0.02),
			testProfessional("d", 0.03),
		},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	rec := buildCandidateList(order, DefaultParams(), lookup, dist, state, map[string]firstSlot{}, nil, nil)

	var ids []string
	for _, c := range rec.Candidates {
		assert.Equal(t, CriterionNearest, c.Criterion)
		ids = append(ids, c.ProfessionalID)
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids)
}

func TestCandidateList_FavoritesWithinRadiusByDistance(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("fav-far", 0.03),
			testProfessional("fav-near", 0.01),
			testProfessional("fav-outside", 0.10),
		},
		Favorites: []string{"fav-far", "fav-near", "fav-outside"},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	rec := buildCandidateList(order, DefaultParams(), lookup, dist, state, map[string]firstSlot{}, in.Favorites, nil)

	assert.GreaterOrEqual(t, len(rec.Candidates), 2)
	assert.Equal(t, "fav-near", rec.Candidates[0].ProfessionalID)
	assert.Equal(t, CriterionFavoriteNearby, rec.Candidates[0].Criterion)
	assert.Equal(t, "fav-far", rec.Candidates[1].ProfessionalID)

	for _, c := range rec.Candidates {
		if c.ProfessionalID == "fav-outside" {
			assert.NotEqual(t, CriterionFavoriteNearby, c.Criterion,
				"out-of-radius favorites may only arrive through later tiers")
		}
	}
}

func TestCandidateList_LowAvailabilityOnlyWhenAlreadySuggested(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("quiet", 0.01),
			testProfessional("seen", 0.02),
		},
		LowAvailability: []string{"quiet", "seen"},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)

	// "seen" already appears on some other order's list today, "quiet" does
	// not; disable day-wide de-duplication so the nearest tier is not in play
	state := NewDayState()
	state.MarkSuggested("seen")

	params := DefaultParams()
	params.MaxCandidates = 1
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	// With K=1 and an occupied nearest tier the list is filled from the
	// low-availability tier alone
	state.MarkOccupied("quiet")

	rec := buildCandidateList(order, params, lookup, dist, state, map[string]firstSlot{}, nil, in.LowAvailability)

	assert.Len(t, rec.Candidates, 1)
	assert.Equal(t, "seen", rec.Candidates[0].ProfessionalID)
	assert.Equal(t, CriterionLowAvailability, rec.Candidates[0].Criterion)
}

func TestCandidateList_CapsAtMaxCandidates(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("a", 0.01),
			testProfessional("b", 0.03),
			testProfessional("c", 0.05),
			testProfessional("d", 0.07),
		},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	params := DefaultParams()
	params.MaxCandidates = 2
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	rec := buildCandidateList(order, params, lookup, dist, state, map[string]firstSlot{}, nil, nil)

	assert.Len(t, rec.Candidates, 2)
}

func TestCandidateList_ExcludesBlockedOccupiedAndReserved(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("blocked", 0.01),
			testProfessional("occupied", 0.02),
			testProfessional("reserved", 0.04),
			testProfessional("open", 0.06),
		},
		Blocks: []model.BlockLink{{ClientTaxID: "100", ProfessionalID: "blocked"}},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	state.MarkOccupied("occupied")
	state.Reserve("reserved", "999")
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	rec := buildCandidateList(order, DefaultParams(), lookup, dist, state, map[string]firstSlot{}, nil, nil)

	var ids []string
	for _, c := range rec.Candidates {
		ids = append(ids, c.ProfessionalID)
	}
	assert.Equal(t, []string{"open"}, ids)
}

func TestCandidateList_EmptyWhenNoEligibleProfessionals(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			{ID: "p1", Name: "Rosa (inativo)", Coord: coord(0, 0.01), Active: false},
		},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	rec := buildCandidateList(order, DefaultParams(), lookup, dist, state, map[string]firstSlot{}, nil, nil)

	assert.Empty(t, rec.Candidates, "an empty list is a valid terminal state, not an error")
}

func TestCandidateList_MarksSuggestedForLaterOrders(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{
			testClient("100", 0),
			testClient("200", 0.001),
		},
		Professionals: []model.Professional{testProfessional("p1", 0.01)},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()

	first := buildCandidateList(testOrder("os-1", "100", "2024-06-10", "08:00", 4),
		DefaultParams(), lookup, dist, state, map[string]firstSlot{}, nil, nil)
	second := buildCandidateList(testOrder("os-2", "200", "2024-06-10", "09:00", 4),
		DefaultParams(), lookup, dist, state, map[string]firstSlot{}, nil, nil)

	assert.Len(t, first.Candidates, 1)
	assert.Empty(t, second.Candidates, "day-wide de-duplication keeps p1 off the second list")
}

func TestCandidateList_RepeatAllowedWhenDeduplicationOff(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{
			testClient("100", 0),
			testClient("200", 0.001),
		},
		Professionals: []model.Professional{testProfessional("p1", 0.01)},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	params := DefaultParams()
	params.AvoidRepeatAcrossDay = false

	first := buildCandidateList(testOrder("os-1", "100", "2024-06-10", "08:00", 4),
		params, lookup, dist, state, map[string]firstSlot{}, nil, nil)
	second := buildCandidateList(testOrder("os-2", "200", "2024-06-10", "09:00", 4),
		params, lookup, dist, state, map[string]firstSlot{}, nil, nil)

	assert.Len(t, first.Candidates, 1)
	assert.Len(t, second.Candidates, 1)
}

func TestCandidateList_HasServedFlag(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("served", 0.01),
			testProfessional("new", 0.03),
		},
		History: visitsOn("100", "served", "2024-05-01"),
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()
	order := testOrder("os-1", "100", "2024-06-10", "08:00", 4)

	rec := buildCandidateList(order, DefaultParams(), lookup, dist, state, map[string]firstSlot{}, nil, nil)

	for _, c := range rec.Candidates {
		switch c.ProfessionalID {
		case "served":
			assert.True(t, c.HasServed)
		case "new":
			assert.False(t, c.HasServed)
		}
	}
}
