package scheduler

import (
	"errors"
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

const (
	// RunRetention is the number of runs kept per config, newest first.
	RunRetention = 5

	// OrphanedRunMessage is recorded on runs left running by a dead process.
	OrphanedRunMessage = "Run interrupted by process restart."

	DefaultStartHour       = 18
	DefaultEndHour         = 23
	DefaultIntervalMinutes = 30
	DefaultIntervalSeconds = 0
)

var (
	ErrConfigExists    = errors.New("scheduler config already exists for season")
	ErrInvalidWeekday  = errors.New("days_of_week values must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidHour     = errors.New("invalid hour window")
	ErrInvalidInterval = errors.New("invalid interval")
)

// Config is the per-season ingestion schedule. DaysOfWeek uses 0=Monday and
// an empty set means every day. The hour window is [StartHour, EndHour).
type Config struct {
	ID              string
	SeasonID        string
	IsActive        bool
	IsPaused        bool
	DaysOfWeek      []int
	StartHour       int
	EndHour         int
	IntervalMinutes int
	IntervalSeconds int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Running reports whether the durable flags ask for a live timer.
func (c Config) Running() bool {
	return c.IsActive && !c.IsPaused
}

// Interval is the firing period, never shorter than one second.
func (c Config) Interval() time.Duration {
	d := time.Duration(c.IntervalMinutes)*time.Minute + time.Duration(c.IntervalSeconds)*time.Second
	if d < time.Second {
		return time.Second
	}
	return d
}

func (c Config) Validate() error {
	for _, d := range c.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: got %d", ErrInvalidWeekday, d)
		}
	}
	if c.StartHour < 0 || c.StartHour > 23 {
		return fmt.Errorf("%w: start_hour must be between 0 and 23", ErrInvalidHour)
	}
	if c.EndHour < 0 || c.EndHour > 24 {
		return fmt.Errorf("%w: end_hour must be between 0 and 24", ErrInvalidHour)
	}
	if c.IntervalMinutes < 0 {
		return fmt.Errorf("%w: interval_minutes must be >= 0", ErrInvalidInterval)
	}
	if c.IntervalSeconds < 0 || c.IntervalSeconds > 59 {
		return fmt.Errorf("%w: interval_seconds must be between 0 and 59", ErrInvalidInterval)
	}
	if c.IntervalMinutes*60+c.IntervalSeconds < 1 {
		return fmt.Errorf("%w: Total interval must be at least 1 second", ErrInvalidInterval)
	}
	return nil
}

// Run is one audited execution of an ingestion cycle.
type Run struct {
	ID             string
	ConfigID       string
	SeasonID       string
	StartedAt      time.Time
	FinishedAt     *time.Time
	Status         RunStatus
	MatchesFetched int
	MatchesNew     int
	ErrorMessage   *string
}

// Complete moves a running run to its terminal state. A non-nil cause marks
// it failed. Completing an already finished run is a no-op and returns false.
func (r *Run) Complete(at time.Time, cause error) bool {
	if r.Status != RunStatusRunning {
		return false
	}
	r.FinishedAt = &at
	if cause != nil {
		msg := cause.Error()
		r.Status = RunStatusFailed
		r.ErrorMessage = &msg
		return true
	}
	r.Status = RunStatusSuccess
	r.ErrorMessage = nil
	return true
}
