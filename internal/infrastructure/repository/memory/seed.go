package memory

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/league"
)

const seedDateLayout = "2006-01-02"

// Seed is the YAML document loaded by the memory storage driver. League,
// season and club management lives outside this service, so the memory
// driver takes them from a file.
type Seed struct {
	Leagues []SeedLeague `yaml:"leagues"`
	Clubs   []SeedClub   `yaml:"clubs"`
}

type SeedLeague struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Seasons []SeedSeason `yaml:"seasons"`
}

type SeedSeason struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	StartDate string   `yaml:"start_date"`
	EndDate   string   `yaml:"end_date"`
	Clubs     []string `yaml:"clubs"`
}

type SeedClub struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	EAID    string `yaml:"ea_id"`
	LogoURL string `yaml:"logo_url"`
}

// DecodeSeed parses a seed document.
func DecodeSeed(r io.Reader) (Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if err == io.EOF {
			return Seed{}, nil
		}
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return seed, nil
}

// LoadSeedFile reads and applies the seed at path.
func LoadSeedFile(store *Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	seed, err := DecodeSeed(f)
	if err != nil {
		return err
	}
	return ApplySeed(store, seed)
}

// ApplySeed writes leagues, seasons, clubs and their links into store.
// Seasons may only link clubs declared in the same document.
func ApplySeed(store *Store, seed Seed) error {
	known := make(map[string]struct{}, len(seed.Clubs))
	for _, c := range seed.Clubs {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("seed club needs id and name")
		}
		store.PutClub(club.Club{ID: c.ID, Name: c.Name, EAID: c.EAID, LogoURL: c.LogoURL})
		known[c.ID] = struct{}{}
	}

	for _, l := range seed.Leagues {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("seed league needs an id")
		}
		store.PutLeague(league.League{ID: l.ID, Name: l.Name})

		for _, s := range l.Seasons {
			season := league.Season{ID: s.ID, LeagueID: l.ID, Name: s.Name}
			start, err := parseSeedDate(s.StartDate)
			if err != nil {
				return fmt.Errorf("season %s start_date: %w", s.ID, err)
			}
			if start == nil {
				return fmt.Errorf("season %s: start_date is required", s.ID)
			}
			end, err := parseSeedDate(s.EndDate)
			if err != nil {
				return fmt.Errorf("season %s end_date: %w", s.ID, err)
			}
			season.StartDate = *start
			season.EndDate = end
			if err := season.Validate(); err != nil {
				return fmt.Errorf("season %s: %w", s.ID, err)
			}
			store.PutSeason(season)

			for _, clubID := range s.Clubs {
				if _, ok := known[clubID]; !ok {
					return fmt.Errorf("season %s links unknown club %s", s.ID, clubID)
				}
				store.LinkClub(s.ID, clubID)
			}
		}
	}
	return nil
}

func parseSeedDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(seedDateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
