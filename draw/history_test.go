package draw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionHistory_Entropy(t *testing.T) {
	testCases := []struct {
		name    string
		history PositionHistory
		order   float64
		want    float64
	}{
		{name: "empty", history: PositionHistory{}, want: 0},
		{name: "single position", history: PositionHistory{OG: 5}, want: 0},
		{name: "uniform shannon", history: PositionHistory{1, 1, 1, 1}, want: math.Log(4)},
		{name: "uniform renyi 2", history: PositionHistory{2, 2, 2, 2}, order: 2, want: math.Log(4)},
		{name: "two halves shannon", history: PositionHistory{OG: 3, CO: 3}, order: 1, want: math.Log(2)},
		{name: "skewed renyi 2", history: PositionHistory{OG: 3, OO: 1}, order: 2, want: -math.Log(0.75*0.75 + 0.25*0.25)},
		{name: "negative order falls back to shannon", history: PositionHistory{1, 1, 0, 0}, order: -3, want: math.Log(2)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.history.Entropy(tc.order), 1e-9)
		})
	}
}

func TestPositionCost(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig(), WithHistories(map[string]PositionHistory{
		"veteran": {OG: 3, OO: 1, CG: 1, CO: 1},
	}))
	veteran := Team{ID: "veteran"}

	t.Run("dominated seat costs more", func(t *testing.T) {
		assert.Greater(t, g.PositionCost(veteran, OG), g.PositionCost(veteran, CO))
		assert.InDelta(t, g.PositionCost(veteran, OO), g.PositionCost(veteran, CO), 1e-9)
	})

	t.Run("new team pays full weight", func(t *testing.T) {
		assert.InDelta(t, DefaultPositionCostWeight, g.PositionCost(Team{ID: "fresh"}, CG), 1e-9)
	})

	t.Run("swing teams are free", func(t *testing.T) {
		assert.Zero(t, g.PositionCost(NewSwingTeam(0), OG))
	})

	t.Run("balanced history is nearly free", func(t *testing.T) {
		g := newTestGenerator(t, DefaultConfig(), WithHistories(map[string]PositionHistory{
			"even": {OG: 3, OO: 3, CG: 3, CO: 2},
		}))
		assert.Less(t, g.PositionCost(Team{ID: "even"}, CO), 1e-3)
	})
}

func TestUpdateHistories(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig(), WithHistories(map[string]PositionHistory{"a": {OG: 1}}))
	draws := []DrawRoom{{
		Teams: Slots{{ID: "a"}, {ID: "b"}, NewSwingTeam(0), {ID: "c"}},
	}}

	g.UpdateHistories(draws)
	g.UpdateHistories(draws)

	assert.Equal(t, PositionHistory{OG: 3}, g.History("a"))
	assert.Equal(t, PositionHistory{OO: 2}, g.History("b"))
	assert.Equal(t, PositionHistory{CO: 2}, g.History("c"))

	all := g.Histories()
	require.Len(t, all, 3)
	assert.NotContains(t, all, "swing-1")

	all["a"] = PositionHistory{}
	assert.Equal(t, 3, g.History("a").Total())
}

func TestMatchPositions(t *testing.T) {
	g := newTestGenerator(t, Config{PositionStrategy: StrategyEntropyMatching}, WithHistories(map[string]PositionHistory{
		"a": {OG: 2, OO: 2, CG: 2},
		"b": {OO: 2, CG: 2, CO: 2},
		"c": {OG: 2, CG: 2, CO: 2},
		"d": {OG: 2, OO: 2, CO: 2},
	}))
	room := Slots{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	seated := g.matchPositions(room)
	assert.Equal(t, "a", seated[CO].ID)
	assert.Equal(t, "b", seated[OG].ID)
	assert.Equal(t, "c", seated[OO].ID)
	assert.Equal(t, "d", seated[CG].ID)
}
