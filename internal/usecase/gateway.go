package usecase

import (
	"context"

	"github.com/Ardidini12/XBHL/internal/domain/player"
)

// ExternalMatch is a provider match after the typed parse step. MatchID is
// empty and Timestamp nil when the payload lacked them.
type ExternalMatch struct {
	MatchID      string
	Timestamp    *int64
	HomeClubEAID *string
	AwayClubEAID *string
	HomeScore    *int
	AwayScore    *int
	Players      []ExternalPlayerStat
	Raw          []byte
}

// Identified reports whether the match carries both parts of its identity.
func (m ExternalMatch) Identified() bool {
	return m.MatchID != "" && m.Timestamp != nil
}

// ExternalPlayerStat is one player line of a provider match. Stats carries
// the parsed stat fields only; identity fields are filled during ingestion.
type ExternalPlayerStat struct {
	ClubEAID   string
	EAPlayerID string
	Gamertag   string
	Stats      player.MatchStats
}

// MatchGateway is the external stats provider. Implementations swallow
// provider faults and report them as not found or empty; a returned error
// means the provider is unusable for the rest of the cycle.
type MatchGateway interface {
	ResolveClubID(ctx context.Context, clubName string) (eaID string, found bool, err error)
	FetchMatches(ctx context.Context, clubEAID string) ([]ExternalMatch, error)
}
