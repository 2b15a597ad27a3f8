package httpapi

import (
	"time"

	"github.com/Ardidini12/XBHL/internal/domain/player"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/usecase"
)

type createSchedulerRequest struct {
	DaysOfWeek      []int `json:"days_of_week" validate:"omitempty,dive,min=0,max=6"`
	StartHour       *int  `json:"start_hour" validate:"omitempty,min=0,max=23"`
	EndHour         *int  `json:"end_hour" validate:"omitempty,min=0,max=24"`
	IntervalMinutes *int  `json:"interval_minutes" validate:"omitempty,min=0"`
	IntervalSeconds *int  `json:"interval_seconds" validate:"omitempty,min=0,max=59"`
}

type updateSchedulerRequest struct {
	DaysOfWeek      *[]int `json:"days_of_week"`
	StartHour       *int   `json:"start_hour" validate:"omitempty,min=0,max=23"`
	EndHour         *int   `json:"end_hour" validate:"omitempty,min=0,max=24"`
	IntervalMinutes *int   `json:"interval_minutes" validate:"omitempty,min=0"`
	IntervalSeconds *int   `json:"interval_seconds" validate:"omitempty,min=0,max=59"`
}

type schedulerConfigDTO struct {
	ID              string    `json:"id"`
	SeasonID        string    `json:"season_id"`
	IsActive        bool      `json:"is_active"`
	IsPaused        bool      `json:"is_paused"`
	DaysOfWeek      []int     `json:"days_of_week"`
	StartHour       int       `json:"start_hour"`
	EndHour         int       `json:"end_hour"`
	IntervalMinutes int       `json:"interval_minutes"`
	IntervalSeconds int       `json:"interval_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type schedulerViewDTO struct {
	schedulerConfigDTO
	SeasonName    *string    `json:"season_name"`
	LeagueName    *string    `json:"league_name"`
	LastRunAt     *time.Time `json:"last_run_at"`
	LastRunStatus *string    `json:"last_run_status"`
	TotalMatches  int        `json:"total_matches"`
	IsRunning     bool       `json:"is_running"`
}

type schedulerRunDTO struct {
	ID                string     `json:"id"`
	SchedulerConfigID string     `json:"scheduler_config_id"`
	SeasonID          string     `json:"season_id"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at"`
	Status            string     `json:"status"`
	MatchesFetched    int        `json:"matches_fetched"`
	MatchesNew        int        `json:"matches_new"`
	ErrorMessage      *string    `json:"error_message"`
}

type messageDTO struct {
	Message string `json:"message"`
}

type pageDTO[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

type matchDTO struct {
	ID           string    `json:"id"`
	EAMatchID    string    `json:"ea_match_id"`
	EATimestamp  int64     `json:"ea_timestamp"`
	SeasonID     string    `json:"season_id"`
	ClubID       string    `json:"club_id"`
	HomeClubEAID *string   `json:"home_club_ea_id"`
	AwayClubEAID *string   `json:"away_club_ea_id"`
	HomeScore    *int      `json:"home_score"`
	AwayScore    *int      `json:"away_score"`
	RawJSON      rawJSON   `json:"raw_json"`
	CreatedAt    time.Time `json:"created_at"`
	SeasonName   *string   `json:"season_name"`
	LeagueName   *string   `json:"league_name"`
	IsHome       *bool     `json:"is_home"`
	OpponentEAID *string   `json:"opponent_ea_id"`
}

type playerDTO struct {
	ID         string    `json:"id"`
	EAPlayerID string    `json:"ea_player_id"`
	Gamertag   string    `json:"gamertag"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type playerDetailDTO struct {
	playerDTO
	Stats []playerMatchStatsDTO `json:"stats"`
}

// playerMatchStatsDTO mirrors player.MatchStats field for field and uses the
// EA stat keys as JSON names.
type playerMatchStatsDTO struct {
	ID                 string    `json:"id"`
	PlayerID           string    `json:"player_id"`
	EAPlayerID         string    `json:"ea_player_id"`
	EAMatchID          string    `json:"ea_match_id"`
	EATimestamp        *int64    `json:"ea_timestamp"`
	MatchID            *string   `json:"match_id"`
	CreatedAt          time.Time `json:"created_at"`
	Class              *int64    `json:"class"`
	GlBrkSavePct       *float64  `json:"glbrksavepct"`
	GlBrkSaves         *int64    `json:"glbrksaves"`
	GlBrkShots         *int64    `json:"glbrkshots"`
	GlDSaves           *int64    `json:"gldsaves"`
	GlGA               *int64    `json:"glga"`
	GlGAA              *float64  `json:"glgaa"`
	GlPenSavePct       *float64  `json:"glpensavepct"`
	GlPenSaves         *int64    `json:"glpensaves"`
	GlPenShots         *int64    `json:"glpenshots"`
	GlPkClearZone      *int64    `json:"glpkclearzone"`
	GlPokeChecks       *int64    `json:"glpokechecks"`
	GlSavePct          *float64  `json:"glsavepct"`
	GlSaves            *int64    `json:"glsaves"`
	GlShots            *int64    `json:"glshots"`
	GlSoPeriods        *int64    `json:"glsoperiods"`
	IsGuest            *int64    `json:"isguest"`
	OpponentClubID     *string   `json:"opponentclubid"`
	OpponentScore      *int64    `json:"opponentscore"`
	OpponentTeamID     *string   `json:"opponentteamid"`
	PlayerDNF          *int64    `json:"player_dnf"`
	PlayerLevel        *int64    `json:"playerlevel"`
	PNHLOnlineGameType *string   `json:"pnhlonlinegametype"`
	Position           *string   `json:"position"`
	PosSorted          *int64    `json:"possorted"`
	RatingDefense      *float64  `json:"ratingdefense"`
	RatingOffense      *float64  `json:"ratingoffense"`
	RatingTeamplay     *float64  `json:"ratingteamplay"`
	Score              *int64    `json:"score"`
	SkAssists          *int64    `json:"skassists"`
	SkBS               *int64    `json:"skbs"`
	SkDeflections      *int64    `json:"skdeflections"`
	SkFOL              *int64    `json:"skfol"`
	SkFOPct            *float64  `json:"skfopct"`
	SkFOW              *int64    `json:"skfow"`
	SkGiveaways        *int64    `json:"skgiveaways"`
	SkGoals            *int64    `json:"skgoals"`
	SkGWG              *int64    `json:"skgwg"`
	SkHits             *int64    `json:"skhits"`
	SkInterceptions    *int64    `json:"skinterceptions"`
	SkPassAttempts     *int64    `json:"skpassattempts"`
	SkPasses           *int64    `json:"skpasses"`
	SkPassPct          *float64  `json:"skpasspct"`
	SkPenaltiesDrawn   *int64    `json:"skpenaltiesdrawn"`
	SkPIM              *int64    `json:"skpim"`
	SkPkClearZone      *int64    `json:"skpkclearzone"`
	SkPlusMin          *int64    `json:"skplusmin"`
	SkPossession       *int64    `json:"skpossession"`
	SkPPG              *int64    `json:"skppg"`
	SkSaucerPasses     *int64    `json:"sksaucerpasses"`
	SkSHG              *int64    `json:"skshg"`
	SkShotAttempts     *int64    `json:"skshotattempts"`
	SkShotOnNetPct     *float64  `json:"skshotonnetpct"`
	SkShotPct          *float64  `json:"skshotpct"`
	SkShots            *int64    `json:"skshots"`
	SkTakeaways        *int64    `json:"sktakeaways"`
	TeamID             *string   `json:"teamid"`
	TeamSide           *int64    `json:"teamside"`
	TOI                *int64    `json:"toi"`
	TOISeconds         *int64    `json:"toiseconds"`
	ClientPlatform     *string   `json:"client_platform"`
}

// rawJSON embeds a stored provider payload verbatim.
type rawJSON []byte

func (r rawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func schedulerConfigToDTO(cfg scheduler.Config) schedulerConfigDTO {
	days := cfg.DaysOfWeek
	if days == nil {
		days = []int{}
	}
	return schedulerConfigDTO{
		ID:              cfg.ID,
		SeasonID:        cfg.SeasonID,
		IsActive:        cfg.IsActive,
		IsPaused:        cfg.IsPaused,
		DaysOfWeek:      days,
		StartHour:       cfg.StartHour,
		EndHour:         cfg.EndHour,
		IntervalMinutes: cfg.IntervalMinutes,
		IntervalSeconds: cfg.IntervalSeconds,
		CreatedAt:       cfg.CreatedAt,
		UpdatedAt:       cfg.UpdatedAt,
	}
}

func schedulerViewToDTO(v usecase.SchedulerView) schedulerViewDTO {
	out := schedulerViewDTO{
		schedulerConfigDTO: schedulerConfigToDTO(v.Config),
		SeasonName:         v.SeasonName,
		LeagueName:         v.LeagueName,
		LastRunAt:          v.LastRunAt,
		TotalMatches:       v.TotalMatches,
		IsRunning:          v.IsRunning,
	}
	if v.LastRunStatus != nil {
		status := string(*v.LastRunStatus)
		out.LastRunStatus = &status
	}
	return out
}

func schedulerRunToDTO(r scheduler.Run) schedulerRunDTO {
	return schedulerRunDTO{
		ID:                r.ID,
		SchedulerConfigID: r.ConfigID,
		SeasonID:          r.SeasonID,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		Status:            string(r.Status),
		MatchesFetched:    r.MatchesFetched,
		MatchesNew:        r.MatchesNew,
		ErrorMessage:      r.ErrorMessage,
	}
}

func matchViewToDTO(v usecase.MatchView) matchDTO {
	m := v.Match
	return matchDTO{
		ID:           m.ID,
		EAMatchID:    m.EAMatchID,
		EATimestamp:  m.EATimestamp,
		SeasonID:     m.SeasonID,
		ClubID:       m.ClubID,
		HomeClubEAID: m.HomeClubEAID,
		AwayClubEAID: m.AwayClubEAID,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		RawJSON:      rawJSON(m.RawJSON),
		CreatedAt:    m.CreatedAt,
		SeasonName:   v.SeasonName,
		LeagueName:   v.LeagueName,
		IsHome:       v.IsHome,
		OpponentEAID: v.OpponentEAID,
	}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:         p.ID,
		EAPlayerID: p.EAPlayerID,
		Gamertag:   p.Gamertag,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func playerDetailToDTO(d usecase.PlayerDetail) playerDetailDTO {
	stats := make([]playerMatchStatsDTO, 0, len(d.Stats))
	for _, s := range d.Stats {
		stats = append(stats, playerMatchStatsDTO(s))
	}
	return playerDetailDTO{playerDTO: playerToDTO(d.Player), Stats: stats}
}

func mapSlice[T, U any](items []T, fn func(T) U) []U {
	out := make([]U, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
