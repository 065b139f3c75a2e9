package draw

// RowStatusPending is the status every freshly generated row starts with.
const RowStatusPending = "pending"

// PersistableDraw is the flat row layout the storage layer expects.
// OG maps to gov, OO to opp, CG to cg and CO to co; ballots and standings
// downstream depend on this exact mapping.
type PersistableDraw struct {
	RoundID      string  `json:"round_id"`
	TournamentID string  `json:"tournament_id"`
	Room         string  `json:"room"`
	GovTeamID    string  `json:"gov_team_id"`
	OppTeamID    string  `json:"opp_team_id"`
	CGTeamID     string  `json:"cg_team_id"`
	COTeamID     string  `json:"co_team_id"`
	JudgeID      *string `json:"judge_id"`
	Judge        *string `json:"judge"`
	Status       string  `json:"status"`
	GovScore     *int    `json:"gov_score"`
	OppScore     *int    `json:"opp_score"`
	// SwingPositions lists the seats filled by synthetic swing teams so storage
	// can tell them apart from real team ids.
	SwingPositions []Position `json:"swing_positions,omitempty"`
}

// TeamID returns the team id stored for p.
func (r PersistableDraw) TeamID(p Position) string {
	switch p {
	case OG:
		return r.GovTeamID
	case OO:
		return r.OppTeamID
	case CG:
		return r.CGTeamID
	case CO:
		return r.COTeamID
	}
	return ""
}

// IsSwing reports whether the seat p holds a swing team.
func (r PersistableDraw) IsSwing(p Position) bool {
	for _, sp := range r.SwingPositions {
		if sp == p {
			return true
		}
	}
	return false
}

// ToDatabaseRows maps draws to rows for one round.
func ToDatabaseRows(draws []DrawRoom, roundID, tournamentID string) []PersistableDraw {
	rows := make([]PersistableDraw, 0, len(draws))
	for _, d := range draws {
		row := PersistableDraw{
			RoundID:      roundID,
			TournamentID: tournamentID,
			Room:         d.Room,
			GovTeamID:    d.Teams[OG].ID,
			OppTeamID:    d.Teams[OO].ID,
			CGTeamID:     d.Teams[CG].ID,
			COTeamID:     d.Teams[CO].ID,
			Status:       RowStatusPending,
		}
		if d.Judge != nil {
			id, name := d.Judge.ID, d.Judge.Name
			row.JudgeID = &id
			row.Judge = &name
		}
		for _, p := range Positions {
			if d.Teams[p].Swing {
				row.SwingPositions = append(row.SwingPositions, p)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
