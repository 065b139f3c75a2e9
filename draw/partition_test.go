package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwingLetters(t *testing.T) {
	for n, want := range map[int]string{
		0:   "A",
		1:   "B",
		25:  "Z",
		26:  "AA",
		27:  "AB",
		701: "ZZ",
		702: "AAA",
	} {
		assert.Equal(t, want, swingLetters(n), "n=%d", n)
	}
}

func TestNewSwingTeam(t *testing.T) {
	team := NewSwingTeam(27)
	assert.Equal(t, "swing-28", team.ID)
	assert.Equal(t, "Swing Team AB", team.Name)
	assert.Equal(t, SwingInstitution, team.Institution)
	assert.True(t, team.Swing)
	assert.True(t, IsSwingID(team.ID))
	assert.False(t, IsSwingID("team-1"))
}

func TestRoomLabel(t *testing.T) {
	rooms := []string{"Hall", "  ", "Library"}
	assert.Equal(t, "Hall", roomLabel(rooms, 0))
	assert.Equal(t, "Room 2", roomLabel(rooms, 1))
	assert.Equal(t, "Library", roomLabel(rooms, 2))
	assert.Equal(t, "Room 4", roomLabel(rooms, 3))
}

func TestUnplaced(t *testing.T) {
	teams := makeTeams(6, nil)
	g := newTestGenerator(t, DefaultConfig())
	draws, err := g.Generate(Input{Teams: teams, Rooms: []string{"A"}})
	assert.NoError(t, err)
	assert.Len(t, Unplaced(teams, draws), 2)
}

func TestSwingTeamFromID(t *testing.T) {
	team, ok := SwingTeamFromID("swing-3")
	assert.True(t, ok)
	assert.Equal(t, NewSwingTeam(2), team)

	for _, id := range []string{"team-3", "swing-", "swing-0", "swing-x"} {
		_, ok := SwingTeamFromID(id)
		assert.False(t, ok, id)
	}
}
