// Package period maintains secondary weekly and monthly baselines and
// produces gain leaderboards against them. Period baselines carry scalar
// stats only: leaderboards never look at inventories.
package period

import (
	"errors"
	"fmt"
	"time"

	"github.com/guildtools/rosterdelta/internal/timex"
)

// ErrInvalidPeriod indicates an unsupported period type string.
var ErrInvalidPeriod = errors.New("invalid period type")

// ErrInvalidMetric indicates an unsupported leaderboard metric string.
var ErrInvalidMetric = errors.New("invalid leaderboard metric")

// Type selects the period granularity.
type Type string

// Supported period types.
const (
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

// ParseType parses a period type string, rejecting unknown values before
// any I/O happens.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Weekly, Monthly:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
}

// Start returns the period start day containing day: the Monday of its week
// or the first of its month.
func (t Type) Start(day time.Time) time.Time {
	if t == Weekly {
		return timex.WeekStart(day)
	}

	return timex.MonthStart(day)
}

// keyInfix is the artifact name fragment for this period type, matching the
// historical artifact names baseline_week_* and baseline_month_*.
func (t Type) keyInfix() string {
	if t == Weekly {
		return "week"
	}

	return "month"
}

func (t Type) baselineKey(periodStart string) string {
	return "baseline_" + t.keyInfix() + "_" + periodStart
}

func (t Type) deltaKey(periodStart string) string {
	return "delta_" + t.keyInfix() + "_" + periodStart
}

// Metric selects what a leaderboard ranks by.
type Metric string

// Supported leaderboard metrics.
const (
	MetricAA Metric = "aa"
	MetricHP Metric = "hp"
)

// ParseMetric parses a leaderboard metric string.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricAA, MetricHP:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, s)
	}
}
