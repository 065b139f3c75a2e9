package draw

import (
	"fmt"
	"math/rand/v2"
)

// Generator produces draws for one tournament. It keeps the position history
// and the pairing memo between calls; neither is persisted here.
type Generator struct {
	cfg       Config
	rng       *rand.Rand
	allocator JudgeAllocator

	histories map[string]PositionHistory
	seen      map[uint64]struct{}
	// keys added to seen by the most recent Generate, dropped by Regenerate
	lastAdded []uint64
}

// NewGenerator builds a Generator. Without WithSeed or WithRand the shuffle is
// seeded from the runtime's random source.
func NewGenerator(cfg Config, opts ...GeneratorOption) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid draw config: %w", err)
	}
	g := &Generator{
		cfg:       cfg.withDefaults(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		histories: make(map[string]PositionHistory),
		seen:      make(map[uint64]struct{}),
	}
	if g.cfg.AvoidJudgeClashes {
		g.allocator = InstitutionAware{}
	} else {
		g.allocator = RoundRobin{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns the effective configuration, defaults applied.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate shuffles the teams, partitions them into len(in.Rooms) rooms,
// seats each room and allocates judges.
func (g *Generator) Generate(in Input) ([]DrawRoom, error) {
	groups, labels, err := g.partition(in.Teams, in.Rooms)
	if err != nil {
		return nil, err
	}

	draws := make([]DrawRoom, len(groups))
	for i, group := range groups {
		seated, cost := g.seat(group, in.Options)
		draws[i] = DrawRoom{
			ID:    fmt.Sprintf("room-%d", i+1),
			Room:  labels[i],
			Teams: seated,
			Cost:  cost,
		}
	}

	judges := g.allocator.Allocate(in.Judges, groups)
	for i := range draws {
		if i < len(judges) {
			draws[i].Judge = judges[i]
		}
	}

	g.remember(draws)
	return draws, nil
}

// Regenerate forgets the pairings recorded by the previous Generate call and
// draws again.
func (g *Generator) Regenerate(in Input) ([]DrawRoom, error) {
	for _, k := range g.lastAdded {
		delete(g.seen, k)
	}
	g.lastAdded = nil
	return g.Generate(in)
}

// seat applies the configured search to one room.
func (g *Generator) seat(group Slots, opts Options) (Slots, float64) {
	withPositions := g.cfg.PositionStrategy == StrategyEntropyMatching
	if !opts.AvoidInstitutionClashes && !withPositions {
		return group, g.arrangementCost(group, false)
	}

	best, cost := g.OptimizeRoom(group)
	if withPositions {
		best = g.matchPositions(best)
		cost = g.arrangementCost(best, true)
	}
	return best, cost
}
