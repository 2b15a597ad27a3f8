package scheduler

import (
	"testing"
	"time"
)

func TestWeekdayIsMondayBased(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := Weekday(monday.AddDate(0, 0, i)); got != i {
			t.Fatalf("day %d: expected weekday index %d, got %d", i, i, got)
		}
	}
}

func TestConfigAllowsHour(t *testing.T) {
	t.Parallel()

	cfg := Config{StartHour: 18, EndHour: 23}
	cases := map[int]bool{17: false, 18: true, 20: true, 22: true, 23: false}
	for hour, want := range cases {
		at := time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)
		if got := cfg.AllowsHour(at); got != want {
			t.Fatalf("hour %d: expected %v, got %v", hour, want, got)
		}
	}

	allDay := Config{StartHour: 0, EndHour: 24}
	if !allDay.AllowsHour(time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("expected end_hour 24 to include the last hour")
	}

	// An inverted window is valid but empty; it does not wrap midnight.
	inverted := Config{StartHour: 20, EndHour: 10, IntervalMinutes: 1}
	if err := inverted.Validate(); err != nil {
		t.Fatalf("expected inverted window to validate, got %v", err)
	}
	for hour := 0; hour < 24; hour++ {
		if inverted.AllowsHour(time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)) {
			t.Fatalf("hour %d: expected inverted window to stay closed", hour)
		}
	}
}

func TestConfigAllowsDay(t *testing.T) {
	t.Parallel()

	tuesday := time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC)
	if !(Config{}).AllowsDay(tuesday) {
		t.Fatalf("expected empty day set to allow every day")
	}
	if !(Config{DaysOfWeek: []int{1, 3}}).AllowsDay(tuesday) {
		t.Fatalf("expected tuesday (1) to be allowed")
	}
	if (Config{DaysOfWeek: []int{0, 6}}).AllowsDay(tuesday) {
		t.Fatalf("expected tuesday to be excluded")
	}
}

func TestConfigGateOrder(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC)
	inSeason := func(time.Time) bool { return true }
	outOfSeason := func(time.Time) bool { return false }

	cases := []struct {
		name     string
		cfg      Config
		inSeason func(time.Time) bool
		want     GateResult
	}{
		{name: "inactive wins", cfg: Config{IsPaused: true}, inSeason: outOfSeason, want: GateInactive},
		{name: "paused", cfg: Config{IsActive: true, IsPaused: true}, inSeason: outOfSeason, want: GatePaused},
		{name: "season before day", cfg: Config{IsActive: true, DaysOfWeek: []int{6}}, inSeason: outOfSeason, want: GateOutOfSeason},
		{name: "day before hour", cfg: Config{IsActive: true, DaysOfWeek: []int{6}, StartHour: 0, EndHour: 1}, inSeason: inSeason, want: GateDayExcluded},
		{name: "hour", cfg: Config{IsActive: true, StartHour: 21, EndHour: 23}, inSeason: inSeason, want: GateOutsideHours},
		{name: "open", cfg: Config{IsActive: true, StartHour: 18, EndHour: 23}, inSeason: inSeason, want: GateOpen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Gate(at, tc.inSeason); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
