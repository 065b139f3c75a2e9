package draw

// JudgeAllocator picks at most one judge per room. The returned slice has one
// entry per room; a nil entry means the room has no judge.
type JudgeAllocator interface {
	Allocate(judges []Judge, rooms []Slots) []*Judge
}

// RoundRobin cycles through the judge list in order, ignoring experience and
// institution.
type RoundRobin struct{}

var _ JudgeAllocator = RoundRobin{}

// Allocate implements JudgeAllocator.
func (RoundRobin) Allocate(judges []Judge, rooms []Slots) []*Judge {
	out := make([]*Judge, len(rooms))
	for i := range rooms {
		out[i] = RoundRobinJudge(judges, i)
	}
	return out
}

// RoundRobinJudge returns judges[roomIndex mod len(judges)], or nil when there
// are no judges.
func RoundRobinJudge(judges []Judge, roomIndex int) *Judge {
	if len(judges) == 0 || roomIndex < 0 {
		return nil
	}
	j := judges[roomIndex%len(judges)]
	return &j
}

// InstitutionAware starts from the round-robin judge of each room and walks
// forward through the list until it finds a judge who is not yet used in this
// draw and shares no institution with the room's teams. When no such judge
// exists the round-robin judge is kept.
type InstitutionAware struct{}

var _ JudgeAllocator = InstitutionAware{}

// Allocate implements JudgeAllocator.
func (InstitutionAware) Allocate(judges []Judge, rooms []Slots) []*Judge {
	out := make([]*Judge, len(rooms))
	if len(judges) == 0 {
		return out
	}
	used := make(map[int]bool, len(judges))
	for i, room := range rooms {
		pick := -1
		for step := 0; step < len(judges); step++ {
			idx := (i + step) % len(judges)
			if used[idx] || judgeClashes(judges[idx], room) {
				continue
			}
			pick = idx
			break
		}
		if pick < 0 {
			pick = i % len(judges)
		}
		used[pick] = true
		j := judges[pick]
		out[i] = &j
	}
	return out
}

func judgeClashes(j Judge, room Slots) bool {
	for _, t := range room {
		if InstitutionsClash(j.Institution, t.Institution) {
			return true
		}
	}
	return false
}
