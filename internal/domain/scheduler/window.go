package scheduler

import (
	"slices"
	"time"
)

// GateResult names why a cycle may not run at a given instant.
type GateResult string

const (
	GateOpen         GateResult = ""
	GateInactive     GateResult = "inactive"
	GatePaused       GateResult = "paused"
	GateOutOfSeason  GateResult = "out_of_season"
	GateDayExcluded  GateResult = "day_excluded"
	GateOutsideHours GateResult = "outside_hours"
)

// Weekday maps t to the Monday-based index stored in DaysOfWeek.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// AllowsDay reports whether t's weekday is in DaysOfWeek; empty allows all.
func (c Config) AllowsDay(t time.Time) bool {
	if len(c.DaysOfWeek) == 0 {
		return true
	}
	return slices.Contains(c.DaysOfWeek, Weekday(t))
}

// AllowsHour reports whether t's hour lies in [StartHour, EndHour).
func (c Config) AllowsHour(t time.Time) bool {
	h := t.Hour()
	return h >= c.StartHour && h < c.EndHour
}

// Gate evaluates the config-owned preconditions in order. Season bounds are
// checked by the caller between the state and weekday checks through
// inSeason.
func (c Config) Gate(now time.Time, inSeason func(time.Time) bool) GateResult {
	switch {
	case !c.IsActive:
		return GateInactive
	case c.IsPaused:
		return GatePaused
	case inSeason != nil && !inSeason(now):
		return GateOutOfSeason
	case !c.AllowsDay(now):
		return GateDayExcluded
	case !c.AllowsHour(now):
		return GateOutsideHours
	default:
		return GateOpen
	}
}
