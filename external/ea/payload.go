package ea

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/player"
	"github.com/Ardidini12/XBHL/internal/usecase"
)

// payloadAPI keeps numbers as json.Number so large ids survive decoding.
var payloadAPI = sonic.Config{UseNumber: true}.Froze()

// ParseMatch converts one raw EA match object into its typed form. Only a
// payload that is not a JSON object fails; every field is converted on its
// own and a field that does not convert is left absent.
func ParseMatch(raw []byte) (usecase.ExternalMatch, error) {
	var doc map[string]any
	if err := payloadAPI.Unmarshal(raw, &doc); err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("decode match payload: %w", err)
	}
	if doc == nil {
		return usecase.ExternalMatch{}, fmt.Errorf("decode match payload: not an object")
	}

	out := usecase.ExternalMatch{
		MatchID:   stringOf(doc["matchId"]),
		Timestamp: int64Of(doc["timestamp"]),
		Raw:       raw,
	}

	clubs, _ := doc["clubs"].(map[string]any)
	for _, clubID := range sortedKeys(clubs) {
		side, ok := clubs[clubID].(map[string]any)
		if !ok {
			continue
		}
		id := clubID
		score := intOf(side["score"])
		switch stringOf(side["teamSide"]) {
		case match.SideHome:
			out.HomeClubEAID = &id
			out.HomeScore = score
		case match.SideAway:
			out.AwayClubEAID = &id
			out.AwayScore = score
		}
	}

	sides, _ := doc["players"].(map[string]any)
	for _, clubID := range sortedKeys(sides) {
		roster, ok := sides[clubID].(map[string]any)
		if !ok {
			continue
		}
		for _, playerID := range sortedKeys(roster) {
			fields, ok := roster[playerID].(map[string]any)
			if !ok {
				continue
			}
			out.Players = append(out.Players, usecase.ExternalPlayerStat{
				ClubEAID:   clubID,
				EAPlayerID: playerID,
				Gamertag:   strings.TrimSpace(stringOf(fields["playername"])),
				Stats:      ParseStats(fields),
			})
		}
	}
	return out, nil
}

// ParseStats reads the stat fields of one player entry.
func ParseStats(fields map[string]any) player.MatchStats {
	var s player.MatchStats
	for _, f := range intStats {
		*f.field(&s) = int64Of(fields[f.key])
	}
	for _, f := range floatStats {
		*f.field(&s) = float64Of(fields[f.key])
	}
	for _, f := range stringStats {
		if v := stringOf(fields[f.key]); v != "" {
			*f.field(&s) = &v
		}
	}
	return s
}

type intStat struct {
	key   string
	field func(*player.MatchStats) **int64
}

type floatStat struct {
	key   string
	field func(*player.MatchStats) **float64
}

type stringStat struct {
	key   string
	field func(*player.MatchStats) **string
}

var intStats = []intStat{
	{"class", func(s *player.MatchStats) **int64 { return &s.Class }},
	{"glbrksaves", func(s *player.MatchStats) **int64 { return &s.GlBrkSaves }},
	{"glbrkshots", func(s *player.MatchStats) **int64 { return &s.GlBrkShots }},
	{"gldsaves", func(s *player.MatchStats) **int64 { return &s.GlDSaves }},
	{"glga", func(s *player.MatchStats) **int64 { return &s.GlGA }},
	{"glpensaves", func(s *player.MatchStats) **int64 { return &s.GlPenSaves }},
	{"glpenshots", func(s *player.MatchStats) **int64 { return &s.GlPenShots }},
	{"glpkclearzone", func(s *player.MatchStats) **int64 { return &s.GlPkClearZone }},
	{"glpokechecks", func(s *player.MatchStats) **int64 { return &s.GlPokeChecks }},
	{"glsaves", func(s *player.MatchStats) **int64 { return &s.GlSaves }},
	{"glshots", func(s *player.MatchStats) **int64 { return &s.GlShots }},
	{"glsoperiods", func(s *player.MatchStats) **int64 { return &s.GlSoPeriods }},
	{"isGuest", func(s *player.MatchStats) **int64 { return &s.IsGuest }},
	{"opponentScore", func(s *player.MatchStats) **int64 { return &s.OpponentScore }},
	{"player_dnf", func(s *player.MatchStats) **int64 { return &s.PlayerDNF }},
	{"playerLevel", func(s *player.MatchStats) **int64 { return &s.PlayerLevel }},
	{"posSorted", func(s *player.MatchStats) **int64 { return &s.PosSorted }},
	{"score", func(s *player.MatchStats) **int64 { return &s.Score }},
	{"skassists", func(s *player.MatchStats) **int64 { return &s.SkAssists }},
	{"skbs", func(s *player.MatchStats) **int64 { return &s.SkBS }},
	{"skdeflections", func(s *player.MatchStats) **int64 { return &s.SkDeflections }},
	{"skfol", func(s *player.MatchStats) **int64 { return &s.SkFOL }},
	{"skfow", func(s *player.MatchStats) **int64 { return &s.SkFOW }},
	{"skgiveaways", func(s *player.MatchStats) **int64 { return &s.SkGiveaways }},
	{"skgoals", func(s *player.MatchStats) **int64 { return &s.SkGoals }},
	{"skgwg", func(s *player.MatchStats) **int64 { return &s.SkGWG }},
	{"skhits", func(s *player.MatchStats) **int64 { return &s.SkHits }},
	{"skinterceptions", func(s *player.MatchStats) **int64 { return &s.SkInterceptions }},
	{"skpassattempts", func(s *player.MatchStats) **int64 { return &s.SkPassAttempts }},
	{"skpasses", func(s *player.MatchStats) **int64 { return &s.SkPasses }},
	{"skpenaltiesdrawn", func(s *player.MatchStats) **int64 { return &s.SkPenaltiesDrawn }},
	{"skpim", func(s *player.MatchStats) **int64 { return &s.SkPIM }},
	{"skpkclearzone", func(s *player.MatchStats) **int64 { return &s.SkPkClearZone }},
	{"skplusmin", func(s *player.MatchStats) **int64 { return &s.SkPlusMin }},
	{"skpossession", func(s *player.MatchStats) **int64 { return &s.SkPossession }},
	{"skppg", func(s *player.MatchStats) **int64 { return &s.SkPPG }},
	{"sksaucerpasses", func(s *player.MatchStats) **int64 { return &s.SkSaucerPasses }},
	{"skshg", func(s *player.MatchStats) **int64 { return &s.SkSHG }},
	{"skshotattempts", func(s *player.MatchStats) **int64 { return &s.SkShotAttempts }},
	{"skshots", func(s *player.MatchStats) **int64 { return &s.SkShots }},
	{"sktakeaways", func(s *player.MatchStats) **int64 { return &s.SkTakeaways }},
	{"teamSide", func(s *player.MatchStats) **int64 { return &s.TeamSide }},
	{"toi", func(s *player.MatchStats) **int64 { return &s.TOI }},
	{"toiseconds", func(s *player.MatchStats) **int64 { return &s.TOISeconds }},
}

var floatStats = []floatStat{
	{"glbrksavepct", func(s *player.MatchStats) **float64 { return &s.GlBrkSavePct }},
	{"glgaa", func(s *player.MatchStats) **float64 { return &s.GlGAA }},
	{"glpensavepct", func(s *player.MatchStats) **float64 { return &s.GlPenSavePct }},
	{"glsavepct", func(s *player.MatchStats) **float64 { return &s.GlSavePct }},
	{"ratingDefense", func(s *player.MatchStats) **float64 { return &s.RatingDefense }},
	{"ratingOffense", func(s *player.MatchStats) **float64 { return &s.RatingOffense }},
	{"ratingTeamplay", func(s *player.MatchStats) **float64 { return &s.RatingTeamplay }},
	{"skfopct", func(s *player.MatchStats) **float64 { return &s.SkFOPct }},
	{"skpasspct", func(s *player.MatchStats) **float64 { return &s.SkPassPct }},
	{"skshotonnetpct", func(s *player.MatchStats) **float64 { return &s.SkShotOnNetPct }},
	{"skshotpct", func(s *player.MatchStats) **float64 { return &s.SkShotPct }},
}

var stringStats = []stringStat{
	{"opponentClubId", func(s *player.MatchStats) **string { return &s.OpponentClubID }},
	{"opponentTeamId", func(s *player.MatchStats) **string { return &s.OpponentTeamID }},
	{"pNhlOnlineGameType", func(s *player.MatchStats) **string { return &s.PNHLOnlineGameType }},
	{"position", func(s *player.MatchStats) **string { return &s.Position }},
	{"teamId", func(s *player.MatchStats) **string { return &s.TeamID }},
	{"clientPlatform", func(s *player.MatchStats) **string { return &s.ClientPlatform }},
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func stringOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// int64Of accepts integral numbers and numeric strings.
func int64Of(v any) *int64 {
	raw := stringOf(v)
	if raw == "" {
		return nil
	}
	if _, isBool := v.(bool); isBool {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	n := int64(f)
	return &n
}

func intOf(v any) *int {
	n := int64Of(v)
	if n == nil || *n > math.MaxInt32 || *n < math.MinInt32 {
		return nil
	}
	i := int(*n)
	return &i
}

func float64Of(v any) *float64 {
	if _, isBool := v.(bool); isBool {
		return nil
	}
	raw := stringOf(v)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}
