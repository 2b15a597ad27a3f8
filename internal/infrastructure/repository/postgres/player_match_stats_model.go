package postgres

import (
	"time"

	"github.com/Ardidini12/XBHL/internal/domain/player"
)

type playerMatchStatsTableModel struct {
	ID                 string    `db:"id"`
	PlayerID           string    `db:"player_id"`
	EAPlayerID         string    `db:"ea_player_id"`
	EAMatchID          string    `db:"ea_match_id"`
	EATimestamp        *int64    `db:"ea_timestamp"`
	MatchID            *string   `db:"match_id"`
	CreatedAt          time.Time `db:"created_at"`
	Class              *int64    `db:"class"`
	GlBrkSavePct       *float64  `db:"glbrksavepct"`
	GlBrkSaves         *int64    `db:"glbrksaves"`
	GlBrkShots         *int64    `db:"glbrkshots"`
	GlDSaves           *int64    `db:"gldsaves"`
	GlGA               *int64    `db:"glga"`
	GlGAA              *float64  `db:"glgaa"`
	GlPenSavePct       *float64  `db:"glpensavepct"`
	GlPenSaves         *int64    `db:"glpensaves"`
	GlPenShots         *int64    `db:"glpenshots"`
	GlPkClearZone      *int64    `db:"glpkclearzone"`
	GlPokeChecks       *int64    `db:"glpokechecks"`
	GlSavePct          *float64  `db:"glsavepct"`
	GlSaves            *int64    `db:"glsaves"`
	GlShots            *int64    `db:"glshots"`
	GlSoPeriods        *int64    `db:"glsoperiods"`
	IsGuest            *int64    `db:"isguest"`
	OpponentClubID     *string   `db:"opponentclubid"`
	OpponentScore      *int64    `db:"opponentscore"`
	OpponentTeamID     *string   `db:"opponentteamid"`
	PlayerDNF          *int64    `db:"player_dnf"`
	PlayerLevel        *int64    `db:"playerlevel"`
	PNHLOnlineGameType *string   `db:"pnhlonlinegametype"`
	Position           *string   `db:"position"`
	PosSorted          *int64    `db:"possorted"`
	RatingDefense      *float64  `db:"ratingdefense"`
	RatingOffense      *float64  `db:"ratingoffense"`
	RatingTeamplay     *float64  `db:"ratingteamplay"`
	Score              *int64    `db:"score"`
	SkAssists          *int64    `db:"skassists"`
	SkBS               *int64    `db:"skbs"`
	SkDeflections      *int64    `db:"skdeflections"`
	SkFOL              *int64    `db:"skfol"`
	SkFOPct            *float64  `db:"skfopct"`
	SkFOW              *int64    `db:"skfow"`
	SkGiveaways        *int64    `db:"skgiveaways"`
	SkGoals            *int64    `db:"skgoals"`
	SkGWG              *int64    `db:"skgwg"`
	SkHits             *int64    `db:"skhits"`
	SkInterceptions    *int64    `db:"skinterceptions"`
	SkPassAttempts     *int64    `db:"skpassattempts"`
	SkPasses           *int64    `db:"skpasses"`
	SkPassPct          *float64  `db:"skpasspct"`
	SkPenaltiesDrawn   *int64    `db:"skpenaltiesdrawn"`
	SkPIM              *int64    `db:"skpim"`
	SkPkClearZone      *int64    `db:"skpkclearzone"`
	SkPlusMin          *int64    `db:"skplusmin"`
	SkPossession       *int64    `db:"skpossession"`
	SkPPG              *int64    `db:"skppg"`
	SkSaucerPasses     *int64    `db:"sksaucerpasses"`
	SkSHG              *int64    `db:"skshg"`
	SkShotAttempts     *int64    `db:"skshotattempts"`
	SkShotOnNetPct     *float64  `db:"skshotonnetpct"`
	SkShotPct          *float64  `db:"skshotpct"`
	SkShots            *int64    `db:"skshots"`
	SkTakeaways        *int64    `db:"sktakeaways"`
	TeamID             *string   `db:"teamid"`
	TeamSide           *int64    `db:"teamside"`
	TOI                *int64    `db:"toi"`
	TOISeconds         *int64    `db:"toiseconds"`
	ClientPlatform     *string   `db:"client_platform"`
}

// The table model mirrors player.MatchStats field for field, so the two
// convert directly.
func newPlayerMatchStatsTableModel(s player.MatchStats) playerMatchStatsTableModel {
	return playerMatchStatsTableModel(s)
}

func (m playerMatchStatsTableModel) toDomain() player.MatchStats {
	return player.MatchStats(m)
}
