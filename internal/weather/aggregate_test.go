package weather

import (
	"fmt"
	"testing"
	"time"
)

func sampleSeries(start time.Time, days, perDay int) []ForecastSample {
	var samples []ForecastSample
	for d := 0; d < days; d++ {
		for i := 0; i < perDay; i++ {
			ts := start.AddDate(0, 0, d).Add(time.Duration(i) * 3 * time.Hour)
			samples = append(samples, ForecastSample{
				Timestamp:   ts,
				Temperature: 10 + float64(d) + float64(i),
				Description: fmt.Sprintf("cond-%d-%d", d, i),
				WindSpeedMS: 10,
			})
		}
	}
	return samples
}

func TestAggregateDailyDropsTodayAndCapsAtFive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// One remaining sample for today plus six full future days.
	samples := sampleSeries(now.Add(3*time.Hour), 1, 4)
	samples = append(samples, sampleSeries(now.AddDate(0, 0, 1).Truncate(24*time.Hour), 6, 8)...)

	days := AggregateDaily(now, samples)

	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	today := now.Format(time.DateOnly)
	for i, d := range days {
		if d.Date == today {
			t.Errorf("day %d: aggregated output contains the current date %s", i, today)
		}
		if d.TempMax < d.TempAvg || d.TempAvg < d.TempMin {
			t.Errorf("day %s: want max >= avg >= min, got %v/%v/%v", d.Date, d.TempMax, d.TempAvg, d.TempMin)
		}
	}

	// Chronological first-appearance order starting tomorrow.
	for i, d := range days {
		want := now.AddDate(0, 0, i+1).Format(time.DateOnly)
		if d.Date != want {
			t.Errorf("day %d: got date %s, want %s", i, d.Date, want)
		}
	}
}

func TestAggregateDailyStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	temps := []float64{4, 8, 15, 9, 6, 3, 12}
	var samples []ForecastSample
	for i, temp := range temps {
		samples = append(samples, ForecastSample{
			Timestamp:   day.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: temp,
			Description: fmt.Sprintf("cond-%d", i),
			WindSpeedMS: 10,
		})
	}

	days := AggregateDaily(now, samples)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}

	d := days[0]
	if d.TempMax != 15 {
		t.Errorf("TempMax = %v, want 15", d.TempMax)
	}
	if d.TempMin != 3 {
		t.Errorf("TempMin = %v, want 3", d.TempMin)
	}
	// (4+8+15+9+6+3+12)/7 = 8.142... -> 8.1
	if d.TempAvg != 8.1 {
		t.Errorf("TempAvg = %v, want 8.1", d.TempAvg)
	}
	// Seven samples pick index 3, the mid-day reading.
	if d.Condition != "cond-3" {
		t.Errorf("Condition = %q, want %q", d.Condition, "cond-3")
	}
	// 10 m/s converts to 36.0 km/h; the mean rounds to a whole number.
	if d.WindSpeed != 36 {
		t.Errorf("WindSpeed = %v, want 36", d.WindSpeed)
	}
}

func TestAggregateDailyEmptyInput(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if days := AggregateDaily(now, nil); len(days) != 0 {
		t.Fatalf("expected no days for empty input, got %d", len(days))
	}

	// Samples only for today produce nothing.
	onlyToday := sampleSeries(now, 1, 4)
	if days := AggregateDaily(now, onlyToday); len(days) != 0 {
		t.Fatalf("expected no days for same-day samples, got %d", len(days))
	}
}
