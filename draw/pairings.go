package draw

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// PairKey identifies an unordered pair of teams.
func PairKey(a, b string) uint64 {
	if b < a {
		a, b = b, a
	}
	return xxh3.HashString(a + "\x00" + b)
}

// RoomKey identifies the composition of a room regardless of seating.
func RoomKey(room Slots) uint64 {
	ids := make([]string, 0, 4)
	for _, t := range room {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return xxh3.HashString(strings.Join(ids, "\x00"))
}

// PairingKeys returns the room and pair keys of draws, skipping anything that
// involves a swing team. These are the keys a Generator remembers.
func PairingKeys(draws []DrawRoom) []uint64 {
	var keys []uint64
	for _, d := range draws {
		if d.SwingCount() == 0 {
			keys = append(keys, RoomKey(d.Teams))
		}
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				a, b := d.Teams[i], d.Teams[j]
				if a.Swing || b.Swing {
					continue
				}
				keys = append(keys, PairKey(a.ID, b.ID))
			}
		}
	}
	return keys
}

// Seen reports whether the key has been remembered.
func (g *Generator) Seen(key uint64) bool {
	_, ok := g.seen[key]
	return ok
}

// SeenPairings returns every remembered key in ascending order.
func (g *Generator) SeenPairings() []uint64 {
	keys := make([]uint64, 0, len(g.seen))
	for k := range g.seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (g *Generator) remember(draws []DrawRoom) {
	g.lastAdded = g.lastAdded[:0]
	for _, k := range PairingKeys(draws) {
		if _, ok := g.seen[k]; ok {
			continue
		}
		g.seen[k] = struct{}{}
		g.lastAdded = append(g.lastAdded, k)
	}
}
