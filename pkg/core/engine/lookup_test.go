package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vavive/rotas/pkg/core/model"
)

func TestLookup_IsEligible(t *testing.T) {
	in := Inputs{
		Professionals: []model.Professional{
			testProfessional("active", 0.01),
			{ID: "inactive", Name: "Maria (inativo)", Coord: coord(0, 0.01), Active: false},
			{ID: "unlocated", Name: "Ana", Active: true},
		},
	}

	lookup := NewLookup(in)

	assert.True(t, lookup.IsEligible("active"))
	assert.False(t, lookup.IsEligible("inactive"), "inactive professionals are never eligible")
	assert.False(t, lookup.IsEligible("unlocated"), "professionals without coordinates are never eligible")
	assert.False(t, lookup.IsEligible("unknown"))
}

func TestLookup_HistoryCounts(t *testing.T) {
	history := visitsOn("100", "p1", "2024-05-01", "2024-05-15", "2024-06-01")
	history = append(history, visitsOn("100", "p2", "2024-05-20")...)
	history = append(history, visitsOn("200", "p1", "2024-05-10")...)

	lookup := NewLookup(Inputs{History: history})

	assert.Equal(t, 3, lookup.HistoryCount("100", "p1"))
	assert.Equal(t, 1, lookup.HistoryCount("100", "p2"))
	assert.Equal(t, 0, lookup.HistoryCount("100", "p3"))
	assert.Equal(t, 4, lookup.TotalCount("p1"), "total counts span clients")
}

func TestLookup_LastServerIsMostRecent(t *testing.T) {
	// Insert out of date order on purpose
	history := visitsOn("100", "p2", "2024-05-20")
	history = append(history, visitsOn("100", "p1", "2024-06-01")...)
	history = append(history, visitsOn("100", "p3", "2024-04-01")...)

	lookup := NewLookup(Inputs{History: history})

	last, ok := lookup.LastServer("100")
	assert.True(t, ok)
	assert.Equal(t, "p1", last)

	_, ok = lookup.LastServer("999")
	assert.False(t, ok)
}

func TestLookup_MostServedTieBrokenByDistance(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{testClient("100", 0)},
		Professionals: []model.Professional{
			testProfessional("far", 0.03),
			testProfessional("near", 0.01),
		},
		History: append(
			visitsOn("100", "far", "2024-05-01", "2024-05-08"),
			visitsOn("100", "near", "2024-05-02", "2024-05-09")...,
		),
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)

	tied := lookup.MostServed("100", dist)
	assert.Equal(t, []string{"near", "far"}, tied)
}

func TestLookup_MostServedEmptyWithoutHistory(t *testing.T) {
	lookup := NewLookup(Inputs{})
	dist := BuildDistanceIndex(nil, nil)

	assert.Empty(t, lookup.MostServed("100", dist))
}

func TestLookup_BlockedAndPreferred(t *testing.T) {
	in := Inputs{
		Blocks: []model.BlockLink{
			{ClientTaxID: "100", ProfessionalID: "p1"},
			{ClientTaxID: "100", ProfessionalID: "p2"},
		},
		Preferences: []model.PreferenceLink{
			{ClientTaxID: "100", ProfessionalID: "p3"},
		},
	}

	lookup := NewLookup(in)

	assert.True(t, lookup.IsBlocked("100", "p1"))
	assert.True(t, lookup.IsBlocked("100", "p2"))
	assert.False(t, lookup.IsBlocked("100", "p3"))
	assert.False(t, lookup.IsBlocked("200", "p1"), "blocks are per client")

	pref, ok := lookup.PreferredFor("100")
	assert.True(t, ok)
	assert.Equal(t, "p3", pref)

	_, ok = lookup.PreferredFor("200")
	assert.False(t, ok)
}

func TestLookup_EligibleIDsSorted(t *testing.T) {
	in := Inputs{
		Professionals: []model.Professional{
			testProfessional("c", 0.01),
			testProfessional("a", 0.02),
			testProfessional("b", 0.03),
			{ID: "d", Name: "No coordinates", Active: true},
		},
	}

	lookup := NewLookup(in)

	assert.Equal(t, []string{"a", "b", "c"}, lookup.EligibleIDs())
}
