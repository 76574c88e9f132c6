package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanae/stayfocus/internal/model"
)

// GetMembers returns a team's members in join order.
func (db *DB) GetMembers(teamID string) ([]model.Member, error) {
	rows, err := db.Query(
		`SELECT id, team_id, name, email, COALESCE(color, ''), created_at
		 FROM members WHERE team_id = ? ORDER BY created_at ASC`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.Name, &m.Email, &m.Color, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CreateMember adds a member to a team.
func (db *DB) CreateMember(member *model.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.TeamID == "" {
		member.TeamID = model.DefaultTeamID
	}
	if member.Color == "" {
		member.Color = model.Palette[len(member.Name)%len(model.Palette)]
	}
	member.CreatedAt = time.Now()

	_, err := db.Exec(
		`INSERT INTO members (id, team_id, name, email, color, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID, member.TeamID, member.Name, member.Email, member.Color, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// DeleteMember removes a member. Their task assignments go with them.
func (db *DB) DeleteMember(id string) error {
	res, err := db.Exec(`DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("member not found: %s", id)
	}
	return nil
}

// GetTeam returns a team by ID, creating it on first use.
func (db *DB) GetTeam(id string) (*model.Team, error) {
	var t model.Team
	err := db.QueryRow(`SELECT id, name, created_at FROM teams WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == nil {
		return &t, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query team: %w", err)
	}

	t = model.Team{ID: id, Name: id, CreatedAt: time.Now()}
	_, err = db.Exec(`INSERT INTO teams (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return &t, nil
}
