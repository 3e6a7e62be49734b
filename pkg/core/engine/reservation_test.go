package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vavive/rotas/pkg/core/model"
)

func TestPreferenceReservation_HistoryWins(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{
			testClient("100", 0),
			testClient("200", 0.005),
		},
		Professionals: []model.Professional{testProfessional("p1", 0.01)},
		Preferences: []model.PreferenceLink{
			{ClientTaxID: "100", ProfessionalID: "p1"},
			{ClientTaxID: "200", ProfessionalID: "p1"},
		},
		History: visitsOn("100", "p1", "2024-05-01", "2024-05-15", "2024-06-01"),
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()

	orders := []model.ServiceOrder{
		testOrder("os-1", "100", "2024-06-10", "10:00", 4),
		testOrder("os-2", "200", "2024-06-10", "08:00", 4),
	}

	runPreferenceReservations(orders, lookup, dist, state)

	owner, ok := state.ReservedOwner("p1")
	assert.True(t, ok)
	assert.Equal(t, "100", owner, "client with more history wins the reservation despite later entry time")
}

func TestPreferenceReservation_DistanceBreaksHistoryTie(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{
			testClient("100", 0.03), // farther from p1
			testClient("200", 0.02), // closer to p1
		},
		Professionals: []model.Professional{testProfessional("p1", 0.01)},
		Preferences: []model.PreferenceLink{
			{ClientTaxID: "100", ProfessionalID: "p1"},
			{ClientTaxID: "200", ProfessionalID: "p1"},
		},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()

	orders := []model.ServiceOrder{
		testOrder("os-1", "100", "2024-06-10", "08:00", 4),
		testOrder("os-2", "200", "2024-06-10", "08:00", 4),
	}

	runPreferenceReservations(orders, lookup, dist, state)

	owner, _ := state.ReservedOwner("p1")
	assert.Equal(t, "200", owner)
}

func TestPreferenceReservation_EntryTimeBreaksFullTie(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{
			testClient("100", 0.02),
			testClient("200", 0.02),
		},
		Professionals: []model.Professional{testProfessional("p1", 0.01)},
		Preferences: []model.PreferenceLink{
			{ClientTaxID: "100", ProfessionalID: "p1"},
			{ClientTaxID: "200", ProfessionalID: "p1"},
		},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()

	orders := []model.ServiceOrder{
		testOrder("os-1", "100", "2024-06-10", "14:00", 4),
		testOrder("os-2", "200", "2024-06-10", "08:00", 4),
	}

	runPreferenceReservations(orders, lookup, dist, state)

	owner, _ := state.ReservedOwner("p1")
	assert.Equal(t, "200", owner)
}

func TestPreferenceReservation_SkipsBlockedAndIneligible(t *testing.T) {
	in := Inputs{
		Clients: []model.Client{
			testClient("100", 0),
			testClient("200", 0),
		},
		Professionals: []model.Professional{
			testProfessional("p1", 0.01),
			{ID: "p2", Name: "Rosa (inativo)", Coord: coord(0, 0.01), Active: false},
		},
		Preferences: []model.PreferenceLink{
			{ClientTaxID: "100", ProfessionalID: "p1"},
			{ClientTaxID: "200", ProfessionalID: "p2"},
		},
		Blocks: []model.BlockLink{
			{ClientTaxID: "100", ProfessionalID: "p1"},
		},
	}
	lookup := NewLookup(in)
	dist := BuildDistanceIndex(in.Clients, in.Professionals)
	state := NewDayState()

	orders := []model.ServiceOrder{
		testOrder("os-1", "100", "2024-06-10", "08:00", 4),
		testOrder("os-2", "200", "2024-06-10", "08:00", 4),
	}

	runPreferenceReservations(orders, lookup, dist, state)

	assert.False(t, state.IsReserved("p1"), "blocked preference is not reserved")
	assert.False(t, state.IsReserved("p2"), "ineligible preference is not reserved")
}
