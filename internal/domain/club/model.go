package club

// Club is a team registered in a league. EAID is the EA Pro Clubs identifier;
// it is empty until resolved by name.
type Club struct {
	ID      string
	Name    string
	EAID    string
	LogoURL string
}

// HasEAID reports whether the club's EA identifier has been resolved.
func (c Club) HasEAID() bool {
	return c.EAID != ""
}
