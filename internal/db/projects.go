package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanae/stayfocus/internal/model"
)

// ErrProjectIncomplete is returned by CompleteProject when the project
// still has open tasks (or has no tasks at all).
var ErrProjectIncomplete = errors.New("project has no tasks or unfinished tasks")

const projectColumns = `p.id, p.team_id, p.name, p.description, p.color,
	p.completed, p.completed_at, p.archived, p.created_at, p.updated_at`

func scanProject(s scanner) (model.Project, error) {
	var p model.Project
	var description, color, completedAt sql.NullString

	err := s.Scan(&p.ID, &p.TeamID, &p.Name, &description, &color,
		&p.Completed, &completedAt, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
		&p.TaskCount, &p.CompletedCount)
	if err != nil {
		return p, err
	}

	p.Description = description.String
	p.Color = color.String
	if completedAt.Valid && completedAt.String != "" {
		at, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return p, fmt.Errorf("project %s: bad completed_at %q: %w", p.ID, completedAt.String, err)
		}
		p.CompletedAt = &at
	}
	return p, nil
}

// GetProjects returns a team's projects with task counts. Archived
// projects are excluded unless includeArchived is set.
func (db *DB) GetProjects(teamID string, includeArchived bool) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + `,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id),
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.completed = 1)
		FROM projects p WHERE p.team_id = ?`
	args := []any{teamID}

	if !includeArchived {
		query += ` AND p.archived = 0`
	}
	query += ` ORDER BY p.completed ASC, p.created_at ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject inserts a new project.
func (db *DB) CreateProject(project *model.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.TeamID == "" {
		project.TeamID = model.DefaultTeamID
	}
	if project.Color == "" {
		project.Color = model.Palette[0]
	}

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := db.Exec(
		`INSERT INTO projects (id, team_id, name, description, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.TeamID, project.Name,
		nullString(project.Description), project.Color, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// UpdateProject saves a project's editable fields.
func (db *DB) UpdateProject(project *model.Project) error {
	res, err := db.Exec(
		`UPDATE projects SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?`,
		project.Name, nullString(project.Description), project.Color, time.Now(), project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireProjectRow(res, project.ID)
}

// CompleteProject marks a project done. A project can only be
// completed once it has tasks and every one of them is finished.
func (db *DB) CompleteProject(id string) error {
	return db.Transaction(func(tx *sql.Tx) error {
		var total, done int
		err := tx.QueryRow(
			`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM tasks WHERE project_id = ?`, id,
		).Scan(&total, &done)
		if err != nil {
			return err
		}
		if total == 0 || done < total {
			return ErrProjectIncomplete
		}

		res, err := tx.Exec(
			`UPDATE projects SET completed = 1, completed_at = ?, updated_at = ? WHERE id = ?`,
			time.Now().Format(time.RFC3339), time.Now(), id,
		)
		if err != nil {
			return fmt.Errorf("failed to complete project: %w", err)
		}
		return requireProjectRow(res, id)
	})
}

// ReopenProject clears a project's completed state.
func (db *DB) ReopenProject(id string) error {
	res, err := db.Exec(
		`UPDATE projects SET completed = 0, completed_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to reopen project: %w", err)
	}
	return requireProjectRow(res, id)
}

// SetProjectArchived moves a project in or out of the archive.
func (db *DB) SetProjectArchived(id string, archived bool) error {
	res, err := db.Exec(
		`UPDATE projects SET archived = ?, updated_at = ? WHERE id = ?`,
		archived, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}
	return requireProjectRow(res, id)
}

// DeleteProject removes a project and all its tasks.
func (db *DB) DeleteProject(id string) error {
	return db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete project tasks: %w", err)
		}
		res, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return requireProjectRow(res, id)
	})
}

func requireProjectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}
