package draw

import (
	"strings"

	"golang.org/x/text/cases"
)

// swaps are the single pairwise exchanges tried after the identity arrangement.
var swaps = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

// OptimizeRoom runs the bounded local search over one room: the identity
// arrangement plus every single pairwise swap. The cheapest arrangement wins;
// ties keep the one found first, so the result never costs more than the input.
func (g *Generator) OptimizeRoom(room Slots) (Slots, float64) {
	withPositions := g.cfg.PositionStrategy == StrategyEntropyMatching

	best := room
	bestCost := g.arrangementCost(room, withPositions)
	for _, sw := range swaps {
		candidate := room
		candidate[sw[0]], candidate[sw[1]] = candidate[sw[1]], candidate[sw[0]]
		if c := g.arrangementCost(candidate, withPositions); c < bestCost {
			best, bestCost = candidate, c
		}
	}
	return best, bestCost
}

// RoomCost is the institution and repeat-pairing cost of a room as seated.
func (g *Generator) RoomCost(room Slots) float64 {
	return g.arrangementCost(room, false)
}

func (g *Generator) arrangementCost(room Slots, withPositions bool) float64 {
	var cost float64
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			cost += g.pairCost(room[i], room[j])
		}
	}
	if withPositions {
		for i, t := range room {
			cost += g.PositionCost(t, Positions[i])
		}
	}
	return cost
}

func (g *Generator) pairCost(a, b Team) float64 {
	var cost float64
	if InstitutionsClash(a.Institution, b.Institution) {
		cost += g.cfg.ClashPenalty
	}
	if g.cfg.RepeatPairingPenalty > 0 && !a.Swing && !b.Swing {
		if _, ok := g.seen[PairKey(a.ID, b.ID)]; ok {
			cost += g.cfg.RepeatPairingPenalty
		}
	}
	return cost
}

// InstitutionsClash reports whether two institutions are the same non-empty
// name under Unicode case folding.
func InstitutionsClash(a, b string) bool {
	ka, kb := institutionKey(a), institutionKey(b)
	return ka != "" && ka == kb
}

func institutionKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
