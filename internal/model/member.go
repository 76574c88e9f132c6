package model

import (
	"time"
)

// Member is a person on a team that tasks can be assigned to.
type Member struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Team groups members, projects and tasks.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultTeamID is the team seeded by the initial migration.
const DefaultTeamID = "default"
