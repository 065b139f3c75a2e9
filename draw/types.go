package draw

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a seat in a British Parliamentary room.
type Position int

const (
	OG Position = iota // Opening Government
	OO                 // Opening Opposition
	CG                 // Closing Government
	CO                 // Closing Opposition
)

// Positions lists the four seats in speaking order.
var Positions = [4]Position{OG, OO, CG, CO}

func (p Position) String() string {
	switch p {
	case OG:
		return "OG"
	case OO:
		return "OO"
	case CG:
		return "CG"
	case CO:
		return "CO"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// MarshalText encodes the position as its two-letter code.
func (p Position) MarshalText() ([]byte, error) {
	if p < OG || p > CO {
		return nil, fmt.Errorf("invalid position %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText parses a two-letter position code.
func (p *Position) UnmarshalText(b []byte) error {
	parsed, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePosition accepts "OG", "OO", "CG" or "CO" in any case.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OG":
		return OG, nil
	case "OO":
		return OO, nil
	case "CG":
		return CG, nil
	case "CO":
		return CO, nil
	}
	return 0, fmt.Errorf("unknown position %q", s)
}

// ExperienceLevel grades teams and judges.
type ExperienceLevel string

const (
	Novice       ExperienceLevel = "novice"
	Intermediate ExperienceLevel = "intermediate"
	Open         ExperienceLevel = "open"
	Pro          ExperienceLevel = "pro"
)

// Valid reports whether l is one of the known levels.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case Novice, Intermediate, Open, Pro:
		return true
	}
	return false
}

// Method labels how a draw was requested. Every method currently runs the
// shuffle-and-optimise path; the label is carried through for the caller.
type Method string

const (
	MethodRandom       Method = "random"
	MethodPowerPairing Method = "power_pairing"
	MethodSwiss        Method = "swiss"
	MethodBalanced     Method = "balanced"
)

// ParseMethod validates a method label. An empty label means MethodRandom.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MethodRandom, nil
	case MethodRandom, MethodPowerPairing, MethodSwiss, MethodBalanced:
		return m, nil
	}
	return "", fmt.Errorf("unknown draw method %q", s)
}

// Team is a registered team, or a synthetic swing team when Swing is set.
type Team struct {
	ID              string          `json:"id"`
	TournamentID    string          `json:"tournament_id,omitempty"`
	Name            string          `json:"name"`
	Institution     string          `json:"institution,omitempty"`
	Speakers        []string        `json:"speakers,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	Swing           bool            `json:"swing,omitempty"`
}

// Judge is an adjudicator available for the round.
type Judge struct {
	ID              string          `json:"id"`
	TournamentID    string          `json:"tournament_id,omitempty"`
	Name            string          `json:"name"`
	Institution     string          `json:"institution,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
}

// Slots holds the four teams of a room indexed by Position.
type Slots [4]Team

// MarshalJSON encodes the slots as an object keyed by position code.
func (s Slots) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Team{
		"OG": s[OG],
		"OO": s[OO],
		"CG": s[CG],
		"CO": s[CO],
	})
}

// UnmarshalJSON decodes an object keyed by position code.
func (s *Slots) UnmarshalJSON(b []byte) error {
	var raw map[Position]Team
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for p, t := range raw {
		s[p] = t
	}
	return nil
}

// DrawRoom is one room of a generated draw.
type DrawRoom struct {
	ID    string  `json:"id"`
	Room  string  `json:"room"`
	Teams Slots   `json:"teams"`
	Judge *Judge  `json:"judge,omitempty"`
	Cost  float64 `json:"cost"`
}

// SwingCount returns how many seats in the room are filled by swing teams.
func (r DrawRoom) SwingCount() int {
	n := 0
	for _, t := range r.Teams {
		if t.Swing {
			n++
		}
	}
	return n
}

// Options are the per-call switches sent with a draw request.
type Options struct {
	Method                  Method `json:"method"`
	AvoidInstitutionClashes bool   `json:"avoid_institution_clashes"`
	// BalanceExperience is accepted for compatibility but does not change the draw.
	BalanceExperience bool `json:"balance_experience"`
}

// Input is everything one Generate call needs.
type Input struct {
	Teams   []Team
	Judges  []Judge
	Rooms   []string
	Options Options
}
