package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenCommuteAPI/internal/impact"
	"greenCommuteAPI/internal/journey"
)

func (q *queries) InsertJourney(_ context.Context, j *journey.Journey, result impact.Calculation) error {
	defer q.lock()()

	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	q.st().journeys = append(q.st().journeys, journeyRow{journey: *j, result: result})
	return nil
}

func (q *queries) ListJourneys(_ context.Context, userID uuid.UUID, limit int) ([]*journey.JourneyWithResult, error) {
	defer q.lock()()

	var rows []journeyRow
	for _, r := range q.st().journeys {
		if r.journey.UserID == userID {
			rows = append(rows, r)
		}
	}
	slices.SortStableFunc(rows, func(a, b journeyRow) int {
		if c := b.journey.Date.Compare(a.journey.Date); c != 0 {
			return c
		}
		return b.journey.CreatedAt.Compare(a.journey.CreatedAt)
	})

	out := make([]*journey.JourneyWithResult, 0, min(len(rows), limit))
	for _, r := range rows {
		if len(out) == limit {
			break
		}
		out = append(out, &journey.JourneyWithResult{Journey: r.journey, Calculation: r.result})
	}
	return out, nil
}

func (q *queries) JourneyTotals(_ context.Context, userID uuid.UUID) (journey.Totals, error) {
	defer q.lock()()

	var totals journey.Totals
	co2, calories := decimal.Zero, decimal.Zero
	for _, r := range q.st().journeys {
		if r.journey.UserID != userID {
			continue
		}
		totals.JourneyCount++
		co2 = co2.Add(decimal.NewFromFloat(r.result.VsDriveCO2SavedG))
		calories = calories.Add(decimal.NewFromFloat(r.result.CaloriesKcal))
	}
	totals.TotalCO2SavedG = co2.InexactFloat64()
	totals.TotalCaloriesKcal = calories.InexactFloat64()
	return totals, nil
}

func (q *queries) SumCO2Saved(_ context.Context, userID uuid.UUID, from, to time.Time, includeDrive bool) (decimal.Decimal, error) {
	defer q.lock()()

	sum := decimal.Zero
	for _, r := range q.st().journeys {
		j := r.journey
		if j.UserID != userID || j.Date.Before(from) || j.Date.After(to) {
			continue
		}
		if !includeDrive && !j.Mode.Sustainable() {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(r.result.VsDriveCO2SavedG))
	}
	return sum, nil
}
