package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/vavive/rotas/internal/config"
	"github.com/vavive/rotas/pkg/core/model"
)

// StatusForecast marks orders materialized from a recurring plan rather than
// booked by the operator
const StatusForecast = "previsto"

// Expand materializes every configured recurring plan into concrete service
// orders over [from, to], inclusive on both ends
// Output is sorted by (date, client, plan) and depends only on the inputs
func Expand(plans []config.PlanRecurrence, from, to time.Time) ([]model.ServiceOrder, error) {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return nil, fmt.Errorf("horizon end %s precedes start %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	var orders []model.ServiceOrder
	for i, plan := range plans {
		rule, err := rrule.StrToRRule(plan.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for plan %d: %w", i, err)
		}

		// Anchor the rule at the horizon start so weekly/monthly patterns
		// enumerate from the window, not from some implicit wall-clock DTSTART
		rule.DTStart(from)

		for _, occurrence := range rule.Between(from, to, true) {
			day := truncateDay(occurrence)
			orders = append(orders, model.ServiceOrder{
				ID:            fmt.Sprintf("plan-%s-%s", plan.ClientTaxID, day.Format("2006-01-02")),
				ClientTaxID:   plan.ClientTaxID,
				Date:          day,
				EntryTime:     plan.EntryTime,
				DurationHours: plan.Hours,
				Service:       plan.Service,
				Plan:          plan.Plan,
				Status:        StatusForecast,
			})
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].Date.Equal(orders[j].Date) {
			return orders[i].Date.Before(orders[j].Date)
		}
		if orders[i].ClientTaxID != orders[j].ClientTaxID {
			return orders[i].ClientTaxID < orders[j].ClientTaxID
		}
		return orders[i].Plan < orders[j].Plan
	})

	return orders, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
