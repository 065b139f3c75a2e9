package draw

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTeams(n int, institution func(i int) string) []Team {
	teams := make([]Team, n)
	for i := range teams {
		inst := ""
		if institution != nil {
			inst = institution(i)
		}
		teams[i] = Team{
			ID:              fmt.Sprintf("t%d", i+1),
			TournamentID:    "tour-1",
			Name:            fmt.Sprintf("Team %d", i+1),
			Institution:     inst,
			Speakers:        []string{"A", "B"},
			ExperienceLevel: Open,
		}
	}
	return teams
}

func makeJudges(n int) []Judge {
	judges := make([]Judge, n)
	for i := range judges {
		judges[i] = Judge{ID: fmt.Sprintf("j%d", i+1), Name: fmt.Sprintf("Judge %d", i+1)}
	}
	return judges
}

func newTestGenerator(t *testing.T, cfg Config, opts ...GeneratorOption) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg, append([]GeneratorOption{WithSeed(7)}, opts...)...)
	require.NoError(t, err)
	return g
}

func TestGenerate_RoomCountAndUniqueTeams(t *testing.T) {
	testCases := []struct {
		name  string
		teams int
		rooms []string
	}{
		{name: "exact fit", teams: 8, rooms: []string{"Room A", "Room B"}},
		{name: "short by one", teams: 7, rooms: []string{"Room A", "Room B"}},
		{name: "single team", teams: 1, rooms: []string{"Room A"}},
		{name: "surplus teams", teams: 13, rooms: []string{"Room A", "Room B", "Room C"}},
		{name: "many swings", teams: 5, rooms: []string{"A", "B", "C", "D"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGenerator(t, DefaultConfig())
			draws, err := g.Generate(Input{
				Teams:   makeTeams(tc.teams, nil),
				Judges:  makeJudges(2),
				Rooms:   tc.rooms,
				Options: Options{Method: MethodRandom, AvoidInstitutionClashes: true},
			})
			require.NoError(t, err)
			require.Len(t, draws, len(tc.rooms))

			seen := make(map[string]bool)
			for i, d := range draws {
				assert.Equal(t, fmt.Sprintf("room-%d", i+1), d.ID)
				assert.Equal(t, tc.rooms[i], d.Room)
				for _, team := range d.Teams {
					require.NotEmpty(t, team.ID)
					assert.False(t, seen[team.ID], "team %s seated twice", team.ID)
					seen[team.ID] = true
				}
			}
		})
	}
}

func TestGenerate_SwingTeams(t *testing.T) {
	t.Run("no swing teams on an exact fit", func(t *testing.T) {
		g := newTestGenerator(t, DefaultConfig())
		draws, err := g.Generate(Input{Teams: makeTeams(8, nil), Rooms: []string{"Room A", "Room B"}})
		require.NoError(t, err)
		for _, d := range draws {
			assert.Zero(t, d.SwingCount())
		}
	})

	t.Run("three teams in one room", func(t *testing.T) {
		g := newTestGenerator(t, DefaultConfig())
		draws, err := g.Generate(Input{Teams: makeTeams(3, nil), Rooms: []string{"Room A"}})
		require.NoError(t, err)
		require.Len(t, draws, 1)

		var real, swing []Team
		for _, team := range draws[0].Teams {
			if team.Swing {
				swing = append(swing, team)
			} else {
				real = append(real, team)
			}
		}
		assert.Len(t, real, 3)
		require.Len(t, swing, 1)
		assert.True(t, strings.HasPrefix(swing[0].ID, SwingIDPrefix))
		assert.Equal(t, SwingInstitution, swing[0].Institution)
		assert.Equal(t, "Swing Team A", swing[0].Name)
	})

	t.Run("one real team and three swings", func(t *testing.T) {
		g := newTestGenerator(t, DefaultConfig())
		draws, err := g.Generate(Input{Teams: makeTeams(1, nil), Rooms: []string{"Room A"}})
		require.NoError(t, err)
		require.Len(t, draws, 1)
		assert.Equal(t, 3, draws[0].SwingCount())

		names := map[string]bool{}
		for _, team := range draws[0].Teams {
			if team.Swing {
				assert.True(t, IsSwingID(team.ID))
				names[team.Name] = true
			}
		}
		assert.Equal(t, map[string]bool{"Swing Team A": true, "Swing Team B": true, "Swing Team C": true}, names)
	})
}

func TestGenerate_InsufficientInput(t *testing.T) {
	testCases := []struct {
		name  string
		cfg   Config
		input Input
	}{
		{name: "empty rooms", cfg: DefaultConfig(), input: Input{Teams: makeTeams(4, nil)}},
		{name: "empty teams", cfg: DefaultConfig(), input: Input{Rooms: []string{"Room A"}}},
		{
			name:  "strict variant with three teams",
			cfg:   Config{DisableSwingTeams: true},
			input: Input{Teams: makeTeams(3, nil), Rooms: []string{"Room A"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGenerator(t, tc.cfg)
			draws, err := g.Generate(tc.input)
			assert.Nil(t, draws)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInsufficientInput))

			var iie *InsufficientInputError
			require.True(t, errors.As(err, &iie))
			assert.NotEmpty(t, iie.Reason)
		})
	}
}

func TestGenerate_StrictVariantDerivesRooms(t *testing.T) {
	g := newTestGenerator(t, Config{DisableSwingTeams: true})
	teams := makeTeams(9, nil)
	draws, err := g.Generate(Input{Teams: teams, Rooms: []string{"Hall"}})
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, "Hall", draws[0].Room)
	assert.Equal(t, "Room 2", draws[1].Room)
	for _, d := range draws {
		assert.Zero(t, d.SwingCount())
	}
	assert.Len(t, Unplaced(teams, draws), 1)
}

func TestGenerate_NoJudges(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	draws, err := g.Generate(Input{Teams: makeTeams(4, nil), Rooms: []string{"Room A"}})
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Nil(t, draws[0].Judge)
}

func TestGenerate_JudgesRoundRobin(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	draws, err := g.Generate(Input{
		Teams:  makeTeams(12, nil),
		Judges: makeJudges(2),
		Rooms:  []string{"A", "B", "C"},
	})
	require.NoError(t, err)
	require.Len(t, draws, 3)
	assert.Equal(t, "j1", draws[0].Judge.ID)
	assert.Equal(t, "j2", draws[1].Judge.ID)
	assert.Equal(t, "j1", draws[2].Judge.ID)
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	in := Input{
		Teams:   makeTeams(16, func(i int) string { return []string{"Oxford", "LSE", "Durham"}[i%3] }),
		Judges:  makeJudges(3),
		Rooms:   []string{"A", "B", "C", "D"},
		Options: Options{AvoidInstitutionClashes: true},
	}

	g1, err := NewGenerator(DefaultConfig(), WithSeed(99))
	require.NoError(t, err)
	g2, err := NewGenerator(DefaultConfig(), WithSeed(99))
	require.NoError(t, err)

	d1, err := g1.Generate(in)
	require.NoError(t, err)
	d2, err := g2.Generate(in)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestGenerate_DoesNotMutateInput(t *testing.T) {
	teams := makeTeams(8, nil)
	original := make([]Team, len(teams))
	copy(original, teams)

	g := newTestGenerator(t, DefaultConfig())
	_, err := g.Generate(Input{Teams: teams, Rooms: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, original, teams)
}

func TestGenerate_OxfordCambridgeScenario(t *testing.T) {
	teams := makeTeams(8, func(i int) string {
		if i < 4 {
			return "Oxford"
		}
		return "Cambridge"
	})

	g := newTestGenerator(t, DefaultConfig())
	draws, err := g.Generate(Input{
		Teams:   teams,
		Judges:  makeJudges(2),
		Rooms:   []string{"Room A", "Room B"},
		Options: Options{Method: MethodRandom, AvoidInstitutionClashes: true},
	})
	require.NoError(t, err)
	require.Len(t, draws, 2)

	for _, d := range draws {
		oxford := 0
		for _, team := range d.Teams {
			if team.Institution == "Oxford" {
				oxford++
			}
		}
		// Seating cannot change which teams share a room, so the reported cost
		// is exactly the clash count of the composition.
		clashPairs := oxford*(oxford-1)/2 + (4-oxford)*(3-oxford)/2
		assert.Equal(t, float64(clashPairs)*DefaultClashPenalty, d.Cost)
		assert.NotNil(t, d.Judge)
	}
}

func TestGenerate_EntropyMatchingRotatesPositions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PositionStrategy = StrategyEntropyMatching
	g := newTestGenerator(t, cfg, WithHistories(map[string]PositionHistory{
		"t1": {OG: 3},
		"t2": {OO: 3},
	}))

	draws, err := g.Generate(Input{Teams: makeTeams(4, nil), Rooms: []string{"Room A"}})
	require.NoError(t, err)
	require.Len(t, draws, 1)

	for i, team := range draws[0].Teams {
		switch team.ID {
		case "t1":
			assert.NotEqual(t, OG, Positions[i])
		case "t2":
			assert.NotEqual(t, OO, Positions[i])
		}
	}
}

func TestRegenerate_ClearsLastPairings(t *testing.T) {
	preserved := PairKey("old-a", "old-b")
	g := newTestGenerator(t, DefaultConfig(), WithSeenPairings([]uint64{preserved}))
	in := Input{Teams: makeTeams(8, nil), Rooms: []string{"A", "B"}}

	first, err := g.Generate(in)
	require.NoError(t, err)
	firstKeys := PairingKeys(first)
	for _, k := range firstKeys {
		assert.True(t, g.Seen(k))
	}

	second, err := g.Regenerate(in)
	require.NoError(t, err)
	secondKeys := make(map[uint64]bool)
	for _, k := range PairingKeys(second) {
		secondKeys[k] = true
		assert.True(t, g.Seen(k))
	}
	for _, k := range firstKeys {
		assert.Equal(t, secondKeys[k], g.Seen(k))
	}
	assert.True(t, g.Seen(preserved))
}

func TestNewGenerator_RejectsBadConfig(t *testing.T) {
	_, err := NewGenerator(Config{PositionStrategy: "hungarian-ish"})
	assert.Error(t, err)

	_, err = NewGenerator(Config{ClashPenalty: -1})
	assert.Error(t, err)
}

func TestNewGenerator_AppliesDefaults(t *testing.T) {
	g, err := NewGenerator(Config{})
	require.NoError(t, err)
	cfg := g.Config()
	assert.Equal(t, DefaultClashPenalty, cfg.ClashPenalty)
	assert.Equal(t, StrategyLocalSwap, cfg.PositionStrategy)
	assert.Equal(t, DefaultPositionCostWeight, cfg.PositionCostWeight)
	assert.Equal(t, DefaultPositionCostExponent, cfg.PositionCostExponent)
	assert.Zero(t, cfg.RepeatPairingPenalty)
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{
		"":              MethodRandom,
		"random":        MethodRandom,
		"Power_Pairing": MethodPowerPairing,
		" swiss ":       MethodSwiss,
		"balanced":      MethodBalanced,
	} {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMethod("knockout")
	assert.Error(t, err)
}
