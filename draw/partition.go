package draw

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// SwingIDPrefix starts the id of every synthetic swing team.
	SwingIDPrefix = "swing-"
	// SwingInstitution is the institution carried by swing teams, so two swing
	// teams in one room clash with each other and with nobody else.
	SwingInstitution = "Swing"
)

// partition shuffles a copy of teams and cuts it into four-team groups, one per
// room. It returns the groups and the label of each room.
func (g *Generator) partition(teams []Team, rooms []string) ([]Slots, []string, error) {
	if len(rooms) == 0 {
		return nil, nil, insufficient("no rooms supplied")
	}
	if len(teams) == 0 {
		return nil, nil, insufficient("no teams supplied")
	}

	roomCount := len(rooms)
	if g.cfg.DisableSwingTeams {
		if len(teams) < 4 {
			return nil, nil, insufficient(fmt.Sprintf("at least 4 teams are required, got %d", len(teams)))
		}
		roomCount = len(teams) / 4
	}

	pool := make([]Team, len(teams))
	copy(pool, teams)
	g.shuffle(pool)

	groups := make([]Slots, roomCount)
	labels := make([]string, roomCount)
	swings := 0
	for i := range groups {
		labels[i] = roomLabel(rooms, i)
		for slot := 0; slot < 4; slot++ {
			idx := i*4 + slot
			if idx < len(pool) {
				groups[i][slot] = pool[idx]
				continue
			}
			groups[i][slot] = NewSwingTeam(swings)
			swings++
		}
	}
	return groups, labels, nil
}

// shuffle is an in-place Fisher-Yates shuffle driven by the generator's source.
func (g *Generator) shuffle(teams []Team) {
	for i := len(teams) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		teams[i], teams[j] = teams[j], teams[i]
	}
}

func roomLabel(rooms []string, i int) string {
	if i < len(rooms) {
		if label := strings.TrimSpace(rooms[i]); label != "" {
			return label
		}
	}
	return fmt.Sprintf("Room %d", i+1)
}

// NewSwingTeam builds the n-th (0-based) swing team of a draw:
// "swing-1"/"Swing Team A", "swing-2"/"Swing Team B", ...
func NewSwingTeam(n int) Team {
	return Team{
		ID:          fmt.Sprintf("%s%d", SwingIDPrefix, n+1),
		Name:        "Swing Team " + swingLetters(n),
		Institution: SwingInstitution,
		Swing:       true,
	}
}

// SwingTeamFromID rebuilds the swing team NewSwingTeam produced for id.
func SwingTeamFromID(id string) (Team, bool) {
	if !IsSwingID(id) {
		return Team{}, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, SwingIDPrefix))
	if err != nil || n < 1 {
		return Team{}, false
	}
	return NewSwingTeam(n - 1), true
}

// IsSwingID reports whether id was produced by NewSwingTeam.
func IsSwingID(id string) bool {
	return strings.HasPrefix(id, SwingIDPrefix)
}

// swingLetters maps 0 -> A, 25 -> Z, 26 -> AA, ...
func swingLetters(n int) string {
	var b []byte
	for n >= 0 {
		b = append([]byte{byte('A' + n%26)}, b...)
		n = n/26 - 1
	}
	return string(b)
}

// Unplaced returns the real teams that did not get a seat in draws, which
// happens when more than four teams per room were supplied.
func Unplaced(teams []Team, draws []DrawRoom) []Team {
	seated := make(map[string]struct{}, len(draws)*4)
	for _, d := range draws {
		for _, t := range d.Teams {
			seated[t.ID] = struct{}{}
		}
	}
	var out []Team
	for _, t := range teams {
		if _, ok := seated[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out
}
