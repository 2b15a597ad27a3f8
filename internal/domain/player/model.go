package player

import "time"

// Player is an EA player identity. Gamertag holds the last observed name.
type Player struct {
	ID         string
	EAPlayerID string
	Gamertag   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MatchStats is one player's line for one EA match. Every stat is optional:
// EA omits fields by position and a value that fails to parse is stored as nil.
type MatchStats struct {
	ID          string
	PlayerID    string
	EAPlayerID  string
	EAMatchID   string
	EATimestamp *int64
	MatchID     *string
	CreatedAt   time.Time

	Class *int64

	GlBrkSavePct  *float64
	GlBrkSaves    *int64
	GlBrkShots    *int64
	GlDSaves      *int64
	GlGA          *int64
	GlGAA         *float64
	GlPenSavePct  *float64
	GlPenSaves    *int64
	GlPenShots    *int64
	GlPkClearZone *int64
	GlPokeChecks  *int64
	GlSavePct     *float64
	GlSaves       *int64
	GlShots       *int64
	GlSoPeriods   *int64

	IsGuest            *int64
	OpponentClubID     *string
	OpponentScore      *int64
	OpponentTeamID     *string
	PlayerDNF          *int64
	PlayerLevel        *int64
	PNHLOnlineGameType *string
	Position           *string
	PosSorted          *int64

	RatingDefense  *float64
	RatingOffense  *float64
	RatingTeamplay *float64
	Score          *int64

	SkAssists        *int64
	SkBS             *int64
	SkDeflections    *int64
	SkFOL            *int64
	SkFOPct          *float64
	SkFOW            *int64
	SkGiveaways      *int64
	SkGoals          *int64
	SkGWG            *int64
	SkHits           *int64
	SkInterceptions  *int64
	SkPassAttempts   *int64
	SkPasses         *int64
	SkPassPct        *float64
	SkPenaltiesDrawn *int64
	SkPIM            *int64
	SkPkClearZone    *int64
	SkPlusMin        *int64
	SkPossession     *int64
	SkPPG            *int64
	SkSaucerPasses   *int64
	SkSHG            *int64
	SkShotAttempts   *int64
	SkShotOnNetPct   *float64
	SkShotPct        *float64
	SkShots          *int64
	SkTakeaways      *int64

	TeamID         *string
	TeamSide       *int64
	TOI            *int64
	TOISeconds     *int64
	ClientPlatform *string
}

// ListQuery filters players by a case-insensitive gamertag substring.
type ListQuery struct {
	Search string
	Offset int
	Limit  int
}
