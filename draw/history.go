package draw

import "math"

// PositionHistory counts how often a team has held each position.
type PositionHistory struct {
	OG int `json:"og"`
	OO int `json:"oo"`
	CG int `json:"cg"`
	CO int `json:"co"`
}

// Count returns the counter for p.
func (h PositionHistory) Count(p Position) int {
	switch p {
	case OG:
		return h.OG
	case OO:
		return h.OO
	case CG:
		return h.CG
	case CO:
		return h.CO
	}
	return 0
}

// Add increments the counter for p.
func (h *PositionHistory) Add(p Position) {
	switch p {
	case OG:
		h.OG++
	case OO:
		h.OO++
	case CG:
		h.CG++
	case CO:
		h.CO++
	}
}

// Total is the number of rounds recorded.
func (h PositionHistory) Total() int {
	return h.OG + h.OO + h.CG + h.CO
}

// maxEntropy is the entropy of the uniform distribution over four positions,
// the same for every Renyi order.
var maxEntropy = math.Log(4)

// Entropy of the position distribution. order <= 0 or 1 selects Shannon
// entropy, anything else the Renyi entropy of that order. An empty history
// has zero entropy.
func (h PositionHistory) Entropy(order float64) float64 {
	total := float64(h.Total())
	if total == 0 {
		return 0
	}
	var probs []float64
	for _, p := range Positions {
		if c := h.Count(p); c > 0 {
			probs = append(probs, float64(c)/total)
		}
	}

	if order <= 0 || order == 1 {
		var e float64
		for _, p := range probs {
			e -= p * math.Log(p)
		}
		return e
	}

	var sum float64
	for _, p := range probs {
		sum += math.Pow(p, order)
	}
	return math.Log(sum) / (1 - order)
}

// PositionCost prices seating t in p: the imbalance left after a hypothetical
// extra round in p, raised to the configured exponent. Seats a team has rarely
// held are cheap, seats it already dominates are expensive. Swing teams cost
// nothing.
func (g *Generator) PositionCost(t Team, p Position) float64 {
	if t.Swing {
		return 0
	}
	h := g.histories[t.ID]
	h.Add(p)
	imbalance := 1 - h.Entropy(g.cfg.RenyiOrder)/maxEntropy
	if imbalance < 0 {
		imbalance = 0
	}
	return g.cfg.PositionCostWeight * math.Pow(imbalance, g.cfg.PositionCostExponent)
}

// CostMatrix returns m[i][p], the position cost of room[i] in position p.
func (g *Generator) CostMatrix(room Slots) [4][4]float64 {
	var m [4][4]float64
	for i, t := range room {
		for _, p := range Positions {
			m[i][p] = g.PositionCost(t, p)
		}
	}
	return m
}

// matchPositions reseats the room so the total position cost is minimal.
func (g *Generator) matchPositions(room Slots) Slots {
	m := g.CostMatrix(room)
	cost := make([][]float64, 4)
	for i := range m {
		cost[i] = m[i][:]
	}
	assign := Hungarian(cost)

	var out Slots
	for i, p := range assign {
		out[p] = room[i]
	}
	return out
}

// UpdateHistories records a finalised draw. Call it once per confirmed round;
// without it position fairness stops carrying across rounds.
func (g *Generator) UpdateHistories(draws []DrawRoom) {
	for _, d := range draws {
		for i, t := range d.Teams {
			if t.Swing || t.ID == "" {
				continue
			}
			h := g.histories[t.ID]
			h.Add(Positions[i])
			g.histories[t.ID] = h
		}
	}
}

// History returns the counters for one team.
func (g *Generator) History(teamID string) PositionHistory {
	return g.histories[teamID]
}

// Histories returns a copy of every team's counters.
func (g *Generator) Histories() map[string]PositionHistory {
	out := make(map[string]PositionHistory, len(g.histories))
	for id, h := range g.histories {
		out[id] = h
	}
	return out
}
