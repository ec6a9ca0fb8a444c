package uptime

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapdesk/statusd/internal/models"
)

func checksWith(statuses map[models.CheckStatus]int, responseMs int) []models.Check {
	var checks []models.Check
	for status, count := range statuses {
		for i := 0; i < count; i++ {
			checks = append(checks, models.Check{Status: status, ResponseTimeMs: responseMs})
		}
	}
	return checks
}

func TestComputeDayStats(t *testing.T) {
	tests := []struct {
		name   string
		checks []models.Check
		want   DayStats
	}{
		{
			name:   "no checks",
			checks: nil,
			want:   DayStats{},
		},
		{
			name: "97 of 100 operational",
			checks: checksWith(map[models.CheckStatus]int{
				models.StatusOperational: 97,
				models.StatusOutage:      3,
			}, 50),
			want: DayStats{
				TotalChecks:       100,
				SuccessfulChecks:  97,
				FailedChecks:      3,
				AvgResponseTimeMs: 50,
				UptimePercentage:  97.0,
			},
		},
		{
			name: "degraded counts as failed",
			checks: checksWith(map[models.CheckStatus]int{
				models.StatusOperational: 1,
				models.StatusDegraded:    1,
			}, 10),
			want: DayStats{
				TotalChecks:       2,
				SuccessfulChecks:  1,
				FailedChecks:      1,
				AvgResponseTimeMs: 10,
				UptimePercentage:  50.0,
			},
		},
		{
			name: "unknown counts toward total only",
			checks: checksWith(map[models.CheckStatus]int{
				models.StatusOperational: 2,
				models.StatusUnknown:     1,
			}, 30),
			want: DayStats{
				TotalChecks:       3,
				SuccessfulChecks:  2,
				FailedChecks:      0,
				AvgResponseTimeMs: 30,
				UptimePercentage:  66.667,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDayStats(tt.checks)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeDayStats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeDayStatsIdempotent(t *testing.T) {
	checks := checksWith(map[models.CheckStatus]int{
		models.StatusOperational: 97,
		models.StatusOutage:      3,
	}, 42)

	first := ComputeDayStats(checks)
	second := ComputeDayStats(checks)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recomputation over unchanged checks differed (-first +second):\n%s", diff)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name       string
		successful int
		total      int
		want       float64
	}{
		{"zero total", 0, 0, 0},
		{"all successful", 10, 10, 100},
		{"rounded to three decimals", 1, 3, 33.333},
		{"two thirds", 2, 3, 66.667},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.successful, tt.total)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.successful, tt.total, got, tt.want)
			}
		})
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name  string
		stats []models.DailyStat
		want  float64
	}{
		{
			name:  "no data reports 100",
			stats: nil,
			want:  100,
		},
		{
			name: "days with zero checks do not drag the average",
			stats: []models.DailyStat{
				{TotalChecks: 0, SuccessfulChecks: 0},
			},
			want: 100,
		},
		{
			name: "weighted across days",
			stats: []models.DailyStat{
				{TotalChecks: 100, SuccessfulChecks: 100},
				{TotalChecks: 100, SuccessfulChecks: 50},
			},
			want: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.stats)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Overall = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2024, 3, 15, 18, 42, 7, 0, time.UTC)
	start, end := DayBounds(at)

	wantStart := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("DayBounds = (%v, %v), want (%v, %v)", start, end, wantStart, wantEnd)
	}
}
