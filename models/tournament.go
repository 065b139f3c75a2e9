package models

import (
	"time"
)

// Draw lifecycle of a round.
const (
	DrawStatusNone      = "none"
	DrawStatusDraft     = "draft"
	DrawStatusConfirmed = "confirmed"
	DrawStatusReleased  = "released"
)

// Tournament is a British Parliamentary competition
type Tournament struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex"`
	Format    string    `json:"format" gorm:"default:'bp'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Teams  []Team  `json:"teams,omitempty" gorm:"foreignKey:TournamentID"`
	Judges []Judge `json:"judges,omitempty" gorm:"foreignKey:TournamentID"`
	Rounds []Round `json:"rounds,omitempty" gorm:"foreignKey:TournamentID"`

	// Calculated fields (not stored in DB)
	TeamCount  int64 `json:"team_count" gorm:"-"`
	JudgeCount int64 `json:"judge_count" gorm:"-"`
}

// Team is a registered pair of speakers
type Team struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	TournamentID    string    `json:"tournament_id" gorm:"not null;index"`
	Name            string    `json:"name" gorm:"not null"`
	Institution     string    `json:"institution"`
	Speakers        []string  `json:"speakers" gorm:"serializer:json;type:text"`
	ExperienceLevel string    `json:"experience_level" gorm:"default:'open'"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type Judge struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	TournamentID    string    `json:"tournament_id" gorm:"not null;index"`
	Name            string    `json:"name" gorm:"not null"`
	Institution     string    `json:"institution"`
	ExperienceLevel string    `json:"experience_level" gorm:"default:'open'"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Round carries the draw lifecycle: none -> draft -> confirmed -> released
type Round struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	TournamentID string     `json:"tournament_id" gorm:"not null;index"`
	Number       int        `json:"number" gorm:"not null"`
	Name         string     `json:"name"`
	Motion       string     `json:"motion" gorm:"type:text"`
	DrawStatus   string     `json:"draw_status" gorm:"default:'none'"`
	DrawMethod   string     `json:"draw_method,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	ReleaseAt    *time.Time `json:"release_at,omitempty" gorm:"index"` // scheduled release
	ReleasedAt   *time.Time `json:"released_at,omitempty"`
	SnapshotURL  string     `json:"snapshot_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
