package analytics

import (
	"testing"
	"time"
)

func scores(vals ...float64) []Attempt {
	attempts := make([]Attempt, len(vals))
	for i, v := range vals {
		attempts[i] = Attempt{Score: v}
	}
	return attempts
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("mean of no attempts = %v, want 0", got)
	}
	if got := Mean(scores(40, 60, 80)); got != 60 {
		t.Errorf("mean = %v, want 60", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median(scores(40, 60, 80)); got != 60 {
		t.Errorf("odd median = %v, want 60", got)
	}
	if got := Median(scores(60, 40)); got != 50 {
		t.Errorf("even median = %v, want 50", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("empty median = %v, want 0", got)
	}
}

func TestPassRate(t *testing.T) {
	if got := PassRate(scores(65, 70, 71, 100)); got != 75 {
		t.Errorf("pass rate = %v, want 75", got)
	}
	if got := PassRate(nil); got != 0 {
		t.Errorf("empty pass rate = %v, want 0", got)
	}
}

func TestDistributionPartitions(t *testing.T) {
	attempts := scores(0, 20, 21, 40, 41, 60, 61, 80, 81, 100, 55.5)
	buckets := Distribution(attempts)

	if len(buckets) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(buckets))
	}

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != len(attempts) {
		t.Errorf("bucket counts sum to %d, want %d", total, len(attempts))
	}

	wantCounts := []int{2, 2, 3, 2, 2}
	for i, want := range wantCounts {
		if buckets[i].Count != want {
			t.Errorf("bucket %s count = %d, want %d", buckets[i].Range, buckets[i].Count, want)
		}
	}
}

func TestDistributionPercentages(t *testing.T) {
	buckets := Distribution(scores(10, 90, 95, 100))
	if buckets[0].Percentage != 25 {
		t.Errorf("0-20 percentage = %v, want 25", buckets[0].Percentage)
	}
	if buckets[4].Percentage != 75 {
		t.Errorf("81-100 percentage = %v, want 75", buckets[4].Percentage)
	}
}

func TestTemporalHistograms(t *testing.T) {
	// Sunday 2025-06-01, fixed UTC so bucketing is deterministic.
	sunday := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)
	attempts := []Attempt{
		{Score: 50, CompletedAt: sunday},
		{Score: 60, CompletedAt: monday},
		{Score: 70, CompletedAt: monday.Add(time.Hour)},
	}

	hours := ByTimeOfDay(attempts, time.UTC)
	if hours[0].Attempts != 1 || hours[2].Attempts != 2 {
		t.Errorf("time-of-day buckets = %+v", hours)
	}

	days := ByDayOfWeek(attempts, time.UTC)
	if days[0].Attempts != 1 {
		t.Errorf("Sunday attempts = %d, want 1", days[0].Attempts)
	}
	if days[1].Attempts != 2 {
		t.Errorf("Monday attempts = %d, want 2", days[1].Attempts)
	}
}

func TestPerDay(t *testing.T) {
	d1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	attempts := []Attempt{
		{CompletedAt: d2},
		{CompletedAt: d1},
		{CompletedAt: d1},
	}

	days := PerDay(attempts, time.UTC)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2025-06-01" || days[0].Count != 2 {
		t.Errorf("first day = %+v, want 2025-06-01 count 2", days[0])
	}
	if days[1].Date != "2025-06-03" || days[1].Count != 1 {
		t.Errorf("second day = %+v, want 2025-06-03 count 1", days[1])
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	attempts := []Attempt{
		{Score: 80, TimeSpent: "1:30", CompletedAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{Score: 40, TimeSpent: "2:30", CompletedAt: time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)},
	}

	r1 := Summarize(attempts, time.UTC)
	r2 := Summarize(attempts, time.UTC)

	if r1.AverageScore != 60 || r1.MedianScore != 60 || r1.PassRate != 50 {
		t.Errorf("report = %+v", r1)
	}
	if r1.TotalTime != "4:00" || r1.AverageTime != "2:00" {
		t.Errorf("times = %s total, %s average", r1.TotalTime, r1.AverageTime)
	}
	if r1.AverageScore != r2.AverageScore || r1.TotalTime != r2.TotalTime {
		t.Error("summarize is not deterministic for identical input")
	}
	// Inputs must not be mutated (scores re-sorted in place, etc.).
	if attempts[0].Score != 80 || attempts[1].Score != 40 {
		t.Error("summarize mutated its input")
	}
}
