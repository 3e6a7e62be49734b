package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vavive/rotas/internal/config"
	"github.com/vavive/rotas/pkg/core/recurrence"
)

func TestExpandPlans(t *testing.T) {
	plans := []config.PlanRecurrence{
		{
			Plan:        "Plano Semanal",
			ClientTaxID: "00012345678909",
			RRule:       "FREQ=WEEKLY;BYDAY=MO",
			EntryTime:   "08:00",
			Hours:       4,
		},
	}
	// 2024-06-10 is a Monday; a 14-day horizon covers two occurrences
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	orders, err := ExpandPlans(zap.NewNop(), plans, from, 14)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "2024-06-10", orders[0].Day())
	assert.Equal(t, "2024-06-17", orders[1].Day())
	assert.Equal(t, recurrence.StatusForecast, orders[0].Status)
}

func TestExpandPlans_HorizonEndExclusive(t *testing.T) {
	plans := []config.PlanRecurrence{
		{Plan: "Semanal", ClientTaxID: "1", RRule: "FREQ=WEEKLY;BYDAY=MO"},
	}
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	// A 7-day horizon ends on Sunday the 16th, so only one Monday fits
	orders, err := ExpandPlans(zap.NewNop(), plans, from, 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "2024-06-10", orders[0].Day())
}

func TestExpandPlans_InvalidHorizon(t *testing.T) {
	_, err := ExpandPlans(zap.NewNop(), nil, time.Now(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "horizon must be positive")
}
