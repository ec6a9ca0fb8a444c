// Package uptime holds the aggregation math behind daily stats and
// uptime percentages, kept free of persistence concerns.
package uptime

import (
	"math"
	"time"

	"github.com/zapdesk/statusd/internal/models"
)

// DayStats is the rollup of one service's checks for one day.
type DayStats struct {
	TotalChecks       int
	SuccessfulChecks  int
	FailedChecks      int
	AvgResponseTimeMs int
	UptimePercentage  float64
}

// ComputeDayStats aggregates a day's checks. Operational checks count
// as successful; outage and degraded count as failed; unknown counts
// toward the total only.
func ComputeDayStats(checks []models.Check) DayStats {
	var stats DayStats
	var responseSum int

	for _, c := range checks {
		stats.TotalChecks++
		responseSum += c.ResponseTimeMs

		switch c.Status {
		case models.StatusOperational:
			stats.SuccessfulChecks++
		case models.StatusOutage, models.StatusDegraded:
			stats.FailedChecks++
		}
	}

	if stats.TotalChecks > 0 {
		stats.AvgResponseTimeMs = responseSum / stats.TotalChecks
		stats.UptimePercentage = Percentage(stats.SuccessfulChecks, stats.TotalChecks)
	}

	return stats
}

// Percentage returns successful/total as a percentage rounded to three
// decimal places.
func Percentage(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(successful) / float64(total) * 100
	return math.Round(pct*1000) / 1000
}

// Overall computes the check-weighted uptime across a window of daily
// stats. A service with no recorded data reports 100 so that new
// services start green.
func Overall(stats []models.DailyStat) float64 {
	var successful, total int
	for _, s := range stats {
		successful += s.SuccessfulChecks
		total += s.TotalChecks
	}

	if total == 0 {
		return 100
	}
	return Percentage(successful, total)
}

// DayBounds returns the UTC start and end instants of the day holding t.
func DayBounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
