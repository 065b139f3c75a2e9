package draw

import (
	"fmt"
	"math/rand/v2"
)

// PositionStrategy selects how teams inside a room are seated.
type PositionStrategy string

const (
	// StrategyLocalSwap evaluates the identity arrangement and the six single
	// swaps against the institution/repeat-pairing cost only.
	StrategyLocalSwap PositionStrategy = "local_swap"
	// StrategyEntropyMatching adds the position-history cost to the search and
	// then seats the room with an optimal assignment over the 4x4 cost matrix.
	StrategyEntropyMatching PositionStrategy = "entropy_matching"
)

// Default tuning values.
const (
	DefaultClashPenalty         = 100.0
	DefaultPositionCostWeight   = 1000.0
	DefaultPositionCostExponent = 4.0
)

// Config tunes a Generator. The zero value of a numeric field is replaced by its
// default in NewGenerator, except RepeatPairingPenalty where zero means off.
type Config struct {
	ClashPenalty         float64          `yaml:"clash_penalty"`
	RepeatPairingPenalty float64          `yaml:"repeat_pairing_penalty"`
	PositionStrategy     PositionStrategy `yaml:"position_strategy"`
	PositionCostWeight   float64          `yaml:"position_cost_weight"`
	PositionCostExponent float64          `yaml:"position_cost_exponent"`
	// RenyiOrder selects the entropy used by the position cost. Values <= 0 or
	// exactly 1 mean Shannon entropy.
	RenyiOrder float64 `yaml:"renyi_order"`
	// DisableSwingTeams switches to the strict variant: at least four real
	// teams are required and the room count follows the team count.
	DisableSwingTeams bool `yaml:"disable_swing_teams"`
	// AvoidJudgeClashes swaps the round-robin judge allocator for InstitutionAware.
	AvoidJudgeClashes bool `yaml:"avoid_judge_clashes"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ClashPenalty:         DefaultClashPenalty,
		PositionStrategy:     StrategyLocalSwap,
		PositionCostWeight:   DefaultPositionCostWeight,
		PositionCostExponent: DefaultPositionCostExponent,
	}
}

// Validate rejects tuning values the cost model cannot use.
func (c Config) Validate() error {
	switch c.PositionStrategy {
	case "", StrategyLocalSwap, StrategyEntropyMatching:
	default:
		return fmt.Errorf("unknown position strategy %q", c.PositionStrategy)
	}
	if c.ClashPenalty < 0 || c.RepeatPairingPenalty < 0 || c.PositionCostWeight < 0 {
		return fmt.Errorf("penalties and weights must not be negative")
	}
	if c.PositionCostExponent < 0 {
		return fmt.Errorf("position_cost_exponent must not be negative, got %v", c.PositionCostExponent)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.ClashPenalty == 0 {
		c.ClashPenalty = DefaultClashPenalty
	}
	if c.PositionStrategy == "" {
		c.PositionStrategy = StrategyLocalSwap
	}
	if c.PositionCostWeight == 0 {
		c.PositionCostWeight = DefaultPositionCostWeight
	}
	if c.PositionCostExponent == 0 {
		c.PositionCostExponent = DefaultPositionCostExponent
	}
	return c
}

// GeneratorOption customises a Generator at construction.
type GeneratorOption func(*Generator)

// WithSeed makes shuffling reproducible.
func WithSeed(seed uint64) GeneratorOption {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses the given source for shuffling.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithHistories seeds per-team position counters, e.g. loaded from storage.
func WithHistories(h map[string]PositionHistory) GeneratorOption {
	return func(g *Generator) {
		for id, ph := range h {
			g.histories[id] = ph
		}
	}
}

// WithSeenPairings restores pairing keys recorded in earlier rounds.
func WithSeenPairings(keys []uint64) GeneratorOption {
	return func(g *Generator) {
		for _, k := range keys {
			g.seen[k] = struct{}{}
		}
	}
}

// WithJudgeAllocator overrides the allocator chosen from Config.
func WithJudgeAllocator(a JudgeAllocator) GeneratorOption {
	return func(g *Generator) {
		if a != nil {
			g.allocator = a
		}
	}
}
