package weather

import (
	"math"
	"time"
)

const maxForecastDays = 5

// AggregateDaily buckets 3-hour forecast samples into at most five daily
// summaries. Samples falling on now's UTC calendar date are discarded, the
// rest are grouped by UTC date in first-appearance order. Per day: exact
// min/max temperature, average temperature to one decimal, the description at
// the group's middle index, and the mean wind speed in km/h rounded to the
// nearest integer.
func AggregateDaily(now time.Time, samples []ForecastSample) []DayForecast {
	today := now.UTC().Format(time.DateOnly)

	type dayGroup struct {
		temps      []float64
		conditions []string
		winds      []float64
	}

	groups := make(map[string]*dayGroup)
	var order []string

	for _, s := range samples {
		date := s.Timestamp.UTC().Format(time.DateOnly)
		if date == today {
			continue
		}

		g, ok := groups[date]
		if !ok {
			if len(order) >= maxForecastDays {
				continue
			}
			g = &dayGroup{}
			groups[date] = g
			order = append(order, date)
		}

		g.temps = append(g.temps, s.Temperature)
		g.conditions = append(g.conditions, s.Description)
		g.winds = append(g.winds, MSToKMH(s.WindSpeedMS))
	}

	days := make([]DayForecast, 0, len(order))
	for _, date := range order {
		g := groups[date]
		if len(g.temps) == 0 {
			continue
		}

		maxT, minT, sumT := g.temps[0], g.temps[0], 0.0
		for _, t := range g.temps {
			if t > maxT {
				maxT = t
			}
			if t < minT {
				minT = t
			}
			sumT += t
		}

		var sumW float64
		for _, w := range g.winds {
			sumW += w
		}

		days = append(days, DayForecast{
			Date:      date,
			TempMax:   maxT,
			TempMin:   minT,
			TempAvg:   round1(sumT / float64(len(g.temps))),
			Condition: g.conditions[len(g.conditions)/2],
			WindSpeed: math.Round(sumW / float64(len(g.winds))),
		})
	}

	return days
}
