package model

import (
	"time"
)

// Project represents a grouping of tasks within a team
type Project struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"team_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Computed fields (not stored)
	TaskCount      int `json:"task_count,omitempty"`
	CompletedCount int `json:"completed_count,omitempty"`
}

// Active reports whether the project should appear on the board.
func (p *Project) Active() bool {
	return !p.Archived && !p.Completed
}

// Palette is the fixed set of colors offered for projects and members.
var Palette = []string{
	"#FF69B4", "#FFB6C1", "#87CEEB", "#4682B4",
	"#90EE90", "#32CD32", "#FFD700", "#FFA500",
	"#D3D3D3", "#A9A9A9",
}
