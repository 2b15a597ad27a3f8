package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type leagueTableModel struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type seasonTableModel struct {
	ID        string     `db:"id"`
	LeagueID  string     `db:"league_id"`
	Name      string     `db:"name"`
	StartDate time.Time  `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
}

type clubTableModel struct {
	ID      string         `db:"id"`
	Name    string         `db:"name"`
	EAID    sql.NullString `db:"ea_id"`
	LogoURL string         `db:"logo_url"`
}

type schedulerConfigTableModel struct {
	ID              string        `db:"id"`
	SeasonID        string        `db:"season_id"`
	IsActive        bool          `db:"is_active"`
	IsPaused        bool          `db:"is_paused"`
	DaysOfWeek      pq.Int64Array `db:"days_of_week"`
	StartHour       int           `db:"start_hour"`
	EndHour         int           `db:"end_hour"`
	IntervalMinutes int           `db:"interval_minutes"`
	IntervalSeconds int           `db:"interval_seconds"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

type schedulerRunTableModel struct {
	ID             string     `db:"id"`
	ConfigID       string     `db:"scheduler_config_id"`
	SeasonID       string     `db:"season_id"`
	StartedAt      time.Time  `db:"started_at"`
	FinishedAt     *time.Time `db:"finished_at"`
	Status         string     `db:"status"`
	MatchesFetched int        `db:"matches_fetched"`
	MatchesNew     int        `db:"matches_new"`
	ErrorMessage   *string    `db:"error_message"`
}

type matchTableModel struct {
	ID           string    `db:"id"`
	EAMatchID    string    `db:"ea_match_id"`
	EATimestamp  int64     `db:"ea_timestamp"`
	SeasonID     string    `db:"season_id"`
	ClubID       string    `db:"club_id"`
	HomeClubEAID *string   `db:"home_club_ea_id"`
	AwayClubEAID *string   `db:"away_club_ea_id"`
	HomeScore    *int      `db:"home_score"`
	AwayScore    *int      `db:"away_score"`
	RawJSON      []byte    `db:"raw_json"`
	CreatedAt    time.Time `db:"created_at"`
}

type playerTableModel struct {
	ID         string    `db:"id"`
	EAPlayerID string    `db:"ea_player_id"`
	Gamertag   string    `db:"gamertag"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
