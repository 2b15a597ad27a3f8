package league

import (
	"fmt"
	"time"
)

// League groups the seasons an operator schedules ingestion for.
type League struct {
	ID   string
	Name string
}

// Season is a bounded period of a league. EndDate is nil for an open-ended season.
type Season struct {
	ID        string
	LeagueID  string
	Name      string
	StartDate time.Time
	EndDate   *time.Time
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("season league id is required")
	}
	if s.StartDate.IsZero() {
		return fmt.Errorf("season start date is required")
	}
	if s.EndDate != nil && dateIn(*s.EndDate, time.UTC).Before(dateIn(s.StartDate, time.UTC)) {
		return fmt.Errorf("season end date is before start date")
	}
	return nil
}

// ActiveOn reports whether the calendar date of at, in at's location, falls
// within [StartDate, EndDate]. Season bounds are calendar dates; their clock
// and zone are ignored. Both bounds are inclusive.
func (s Season) ActiveOn(at time.Time) bool {
	loc := at.Location()
	y, m, d := at.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if today.Before(dateIn(s.StartDate, loc)) {
		return false
	}
	if s.EndDate != nil && today.After(dateIn(*s.EndDate, loc)) {
		return false
	}
	return true
}

// dateIn places the calendar date of t at midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
