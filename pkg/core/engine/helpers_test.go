package engine

import (
	"time"

	"github.com/vavive/rotas/pkg/core/model"
)

// Test fixtures sit on the equator so a 0.01 degree longitude offset is a
// clean 1.11 km of great-circle distance.

func coord(lat, lon float64) *model.Coordinate {
	return &model.Coordinate{Lat: lat, Lon: lon}
}

func testClient(taxID string, lon float64) model.Client {
	return model.Client{
		TaxID: taxID,
		Name:  "Client " + taxID,
		Coord: coord(0, lon),
	}
}

func testProfessional(id string, lon float64) model.Professional {
	return model.Professional{
		ID:     id,
		Name:   "Professional " + id,
		Coord:  coord(0, lon),
		Active: true,
	}
}

func testOrder(id, clientTaxID, day, entryTime string, durationHours float64) model.ServiceOrder {
	date, _ := time.Parse("2006-01-02", day)
	return model.ServiceOrder{
		ID:            id,
		ClientTaxID:   clientTaxID,
		Date:          date,
		EntryTime:     entryTime,
		DurationHours: durationHours,
		Service:       "Residential cleaning",
	}
}

func visitsOn(clientTaxID, professionalID string, days ...string) []model.Visit {
	visits := make([]model.Visit, 0, len(days))
	for _, day := range days {
		date, _ := time.Parse("2006-01-02", day)
		visits = append(visits, model.Visit{
			ClientTaxID:    clientTaxID,
			ProfessionalID: professionalID,
			Date:           date,
		})
	}
	return visits
}
