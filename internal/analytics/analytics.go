// Package analytics computes summary statistics over quiz attempts.
// Every function is a pure transformation of its input: results are
// deterministic for the same attempt list and inputs are never mutated.
package analytics

import (
	"sort"
	"time"
)

// PassingScore is the minimum score counted as a pass.
const PassingScore = 70.0

// Attempt is the slice of attempt data the aggregations need.
type Attempt struct {
	Score       float64
	TimeSpent   string
	CompletedAt time.Time
}

// ScoreBucket is one inclusive range of the score distribution.
type ScoreBucket struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DayCount is the number of attempts completed on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// HourBucket is the number of attempts completed in one 6-hour window.
type HourBucket struct {
	Hours    string `json:"hour"`
	Attempts int    `json:"attempts"`
}

// WeekdayCount is the number of attempts completed on one day of the week.
type WeekdayCount struct {
	Day      string `json:"day"`
	Attempts int    `json:"attempts"`
}

// Report holds every aggregate the analytics views display.
type Report struct {
	TotalAttempts     int            `json:"total_attempts"`
	AverageScore      float64        `json:"average_score"`
	MedianScore       float64        `json:"median_score"`
	PassRate          float64        `json:"pass_rate"`
	AverageTime       string         `json:"average_time"`
	TotalTime         string         `json:"total_time"`
	ScoreDistribution []ScoreBucket  `json:"score_distribution"`
	AttemptsPerDay    []DayCount     `json:"attempts_per_day"`
	ByTimeOfDay       []HourBucket   `json:"by_time_of_day"`
	ByDayOfWeek       []WeekdayCount `json:"by_day_of_week"`
}

// Summarize computes the full report for one quiz's attempts. Temporal
// histograms are bucketed in loc; pass time.Local for viewer-local wall
// clock behavior.
func Summarize(attempts []Attempt, loc *time.Location) Report {
	totalSeconds := 0
	for _, a := range attempts {
		totalSeconds += ParseTime(a.TimeSpent)
	}
	averageSeconds := 0
	if len(attempts) > 0 {
		averageSeconds = totalSeconds / len(attempts)
	}

	return Report{
		TotalAttempts:     len(attempts),
		AverageScore:      Mean(attempts),
		MedianScore:       Median(attempts),
		PassRate:          PassRate(attempts),
		AverageTime:       FormatTime(averageSeconds),
		TotalTime:         FormatTime(totalSeconds),
		ScoreDistribution: Distribution(attempts),
		AttemptsPerDay:    PerDay(attempts, loc),
		ByTimeOfDay:       ByTimeOfDay(attempts, loc),
		ByDayOfWeek:       ByDayOfWeek(attempts, loc),
	}
}

// Mean returns the arithmetic mean score, 0 for an empty list.
func Mean(attempts []Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range attempts {
		sum += a.Score
	}
	return sum / float64(len(attempts))
}

// Median returns the standard median over scores sorted ascending,
// averaging the two middle values for even counts. 0 for an empty list.
func Median(attempts []Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	scores := make([]float64, len(attempts))
	for i, a := range attempts {
		scores[i] = a.Score
	}
	sort.Float64s(scores)

	mid := len(scores) / 2
	if len(scores)%2 == 1 {
		return scores[mid]
	}
	return (scores[mid-1] + scores[mid]) / 2
}

// PassRate returns the percentage of attempts scoring at least PassingScore.
func PassRate(attempts []Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	passed := 0
	for _, a := range attempts {
		if a.Score >= PassingScore {
			passed++
		}
	}
	return float64(passed) / float64(len(attempts)) * 100
}

var bucketRanges = []struct {
	label    string
	min, max float64
}{
	{"0-20", 0, 20},
	{"21-40", 21, 40},
	{"41-60", 41, 60},
	{"61-80", 61, 80},
	{"81-100", 81, 100},
}

// Distribution buckets scores into the five inclusive ranges
// 0-20, 21-40, 41-60, 61-80, 81-100. The buckets partition [0,100]:
// every attempt lands in exactly one (fractional scores fall into the
// bucket whose ceiling they round up into).
func Distribution(attempts []Attempt) []ScoreBucket {
	buckets := make([]ScoreBucket, len(bucketRanges))
	for i, r := range bucketRanges {
		buckets[i] = ScoreBucket{Range: r.label}
	}
	for _, a := range attempts {
		for i := range bucketRanges {
			if a.Score <= bucketRanges[i].max || i == len(bucketRanges)-1 {
				buckets[i].Count++
				break
			}
		}
	}
	if len(attempts) > 0 {
		for i := range buckets {
			buckets[i].Percentage = float64(buckets[i].Count) / float64(len(attempts)) * 100
		}
	}
	return buckets
}

// PerDay counts attempts per calendar day, ordered by date ascending.
func PerDay(attempts []Attempt, loc *time.Location) []DayCount {
	byDate := make(map[string]int)
	for _, a := range attempts {
		byDate[a.CompletedAt.In(loc).Format("2006-01-02")]++
	}
	days := make([]DayCount, 0, len(byDate))
	for date, count := range byDate {
		days = append(days, DayCount{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// ByTimeOfDay counts attempts in four 6-hour windows of the local day.
func ByTimeOfDay(attempts []Attempt, loc *time.Location) []HourBucket {
	buckets := []HourBucket{
		{Hours: "00-06"},
		{Hours: "06-12"},
		{Hours: "12-18"},
		{Hours: "18-24"},
	}
	for _, a := range attempts {
		buckets[a.CompletedAt.In(loc).Hour()/6].Attempts++
	}
	return buckets
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ByDayOfWeek counts attempts per local day of the week, Sunday first.
func ByDayOfWeek(attempts []Attempt, loc *time.Location) []WeekdayCount {
	counts := make([]WeekdayCount, len(weekdays))
	for i, d := range weekdays {
		counts[i] = WeekdayCount{Day: d}
	}
	for _, a := range attempts {
		counts[a.CompletedAt.In(loc).Weekday()].Attempts++
	}
	return counts
}
