package match

import "time"

const (
	SideHome = "0"
	SideAway = "1"
)

// Match is one EA match as reported by one club. A real match played between
// two tracked clubs is stored once per reporting club.
type Match struct {
	ID           string
	EAMatchID    string
	EATimestamp  int64
	SeasonID     string
	ClubID       string
	HomeClubEAID *string
	AwayClubEAID *string
	HomeScore    *int
	AwayScore    *int
	RawJSON      []byte
	CreatedAt    time.Time
}

// Key is the de-duplication key of a stored match.
type Key struct {
	EAMatchID   string
	EATimestamp int64
	ClubID      string
}

func (m Match) Key() Key {
	return Key{EAMatchID: m.EAMatchID, EATimestamp: m.EATimestamp, ClubID: m.ClubID}
}

// IsHome reports whether clubEAID played the home side. ok is false unless
// both sides are known and clubEAID is one of them.
func (m Match) IsHome(clubEAID string) (home bool, ok bool) {
	if clubEAID == "" || m.HomeClubEAID == nil || m.AwayClubEAID == nil {
		return false, false
	}
	switch clubEAID {
	case *m.HomeClubEAID:
		return true, true
	case *m.AwayClubEAID:
		return false, true
	default:
		return false, false
	}
}

// OpponentEAID returns the EA id of the side clubEAID did not play.
func (m Match) OpponentEAID(clubEAID string) *string {
	home, ok := m.IsHome(clubEAID)
	if !ok {
		return nil
	}
	if home {
		return m.AwayClubEAID
	}
	return m.HomeClubEAID
}

// ListQuery filters stored matches. Empty fields do not filter.
type ListQuery struct {
	SeasonID string
	ClubID   string
	Offset   int
	Limit    int
}
