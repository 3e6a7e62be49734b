package services

import (
	"sort"

	"go.uber.org/zap"

	"github.com/vavive/rotas/pkg/core/model"
)

// ProfessionalRoster splits the loaded professionals into the schedulable
// roster and the excluded remainder
type ProfessionalRoster struct {
	// Eligible professionals are active and locatable, sorted by ID
	Eligible []model.Professional

	Inactive    int
	Unlocatable int
}

// ListProfessionals builds the eligible roster the scheduler would draw from
func ListProfessionals(logger *zap.Logger, professionals []model.Professional) *ProfessionalRoster {
	roster := &ProfessionalRoster{}

	for _, p := range professionals {
		switch {
		case !p.Active:
			roster.Inactive++
		case p.Coord == nil:
			roster.Unlocatable++
		default:
			roster.Eligible = append(roster.Eligible, p)
		}
	}

	sort.Slice(roster.Eligible, func(i, j int) bool {
		return roster.Eligible[i].ID < roster.Eligible[j].ID
	})

	logger.Debug("Professional roster built",
		zap.Int("eligible", len(roster.Eligible)),
		zap.Int("inactive", roster.Inactive),
		zap.Int("unlocatable", roster.Unlocatable))

	return roster
}
