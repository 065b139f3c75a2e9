package draw

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDatabaseRows(t *testing.T) {
	judge := &Judge{ID: "j1", Name: "Alex"}
	draws := []DrawRoom{
		{
			ID:    "room-1",
			Room:  "Room A",
			Teams: Slots{{ID: "og"}, {ID: "oo"}, {ID: "cg"}, {ID: "co"}},
			Judge: judge,
		},
		{
			ID:    "room-2",
			Room:  "Room B",
			Teams: Slots{{ID: "x"}, NewSwingTeam(0), {ID: "y"}, NewSwingTeam(1)},
		},
	}

	rows := ToDatabaseRows(draws, "round-1", "tour-1")
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "round-1", first.RoundID)
	assert.Equal(t, "tour-1", first.TournamentID)
	assert.Equal(t, "Room A", first.Room)
	assert.Equal(t, "og", first.GovTeamID)
	assert.Equal(t, "oo", first.OppTeamID)
	assert.Equal(t, "cg", first.CGTeamID)
	assert.Equal(t, "co", first.COTeamID)
	require.NotNil(t, first.JudgeID)
	assert.Equal(t, "j1", *first.JudgeID)
	assert.Equal(t, "Alex", *first.Judge)
	assert.Equal(t, RowStatusPending, first.Status)
	assert.Nil(t, first.GovScore)
	assert.Nil(t, first.OppScore)
	assert.Empty(t, first.SwingPositions)

	second := rows[1]
	assert.Nil(t, second.JudgeID)
	assert.Nil(t, second.Judge)
	assert.Equal(t, []Position{OO, CO}, second.SwingPositions)
	assert.True(t, second.IsSwing(OO))
	assert.False(t, second.IsSwing(OG))
	assert.Equal(t, "swing-2", second.TeamID(CO))
	assert.Equal(t, "y", second.TeamID(CG))
}

func TestToDatabaseRows_Empty(t *testing.T) {
	assert.Empty(t, ToDatabaseRows(nil, "r", "t"))
}

func TestSlotsJSON(t *testing.T) {
	room := DrawRoom{ID: "room-1", Room: "A", Teams: Slots{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}
	b, err := json.Marshal(room)
	require.NoError(t, err)

	var envelope struct {
		Teams map[string]json.RawMessage `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(b, &envelope))
	assert.Len(t, envelope.Teams, 4)
	assert.Contains(t, envelope.Teams, "OG")
	assert.Contains(t, envelope.Teams, "CO")

	var back DrawRoom
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, room.Teams, back.Teams)
}
