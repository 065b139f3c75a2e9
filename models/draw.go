package models

import (
	"time"
)

// Draw is one room of a round's draw. OG is stored as gov, OO as opp.
type Draw struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	RoundID        string    `json:"round_id" gorm:"not null;index"`
	TournamentID   string    `json:"tournament_id" gorm:"not null;index"`
	Position       int       `json:"position"` // room order within the round
	Room           string    `json:"room"`
	GovTeamID      string    `json:"gov_team_id" gorm:"column:gov_team_id"`
	OppTeamID      string    `json:"opp_team_id" gorm:"column:opp_team_id"`
	CGTeamID       string    `json:"cg_team_id" gorm:"column:cg_team_id"`
	COTeamID       string    `json:"co_team_id" gorm:"column:co_team_id"`
	JudgeID        *string   `json:"judge_id"`
	Judge          *string   `json:"judge"`
	Status         string    `json:"status" gorm:"default:'pending'"`
	GovScore       *int      `json:"gov_score"`
	OppScore       *int      `json:"opp_score"`
	SwingPositions []string  `json:"swing_positions,omitempty" gorm:"serializer:json;type:text"`
	Cost           float64   `json:"cost"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TeamPositionHistory counts the confirmed rounds a team spent in each seat.
type TeamPositionHistory struct {
	TournamentID string    `json:"tournament_id" gorm:"primaryKey"`
	TeamID       string    `json:"team_id" gorm:"primaryKey"`
	OG           int       `json:"og" gorm:"column:og;default:0"`
	OO           int       `json:"oo" gorm:"column:oo;default:0"`
	CG           int       `json:"cg" gorm:"column:cg;default:0"`
	CO           int       `json:"co" gorm:"column:co;default:0"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SeenPairing is a room or team-pair key from a confirmed round. Key is the
// hex form of the 64-bit hash; Postgres has no unsigned bigint.
type SeenPairing struct {
	TournamentID string    `json:"tournament_id" gorm:"primaryKey"`
	Key          string    `json:"key" gorm:"primaryKey;size:16"`
	RoundID      string    `json:"round_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
