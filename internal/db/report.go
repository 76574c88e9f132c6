package db

import (
	"fmt"
	"time"

	"github.com/hanae/stayfocus/internal/model"
)

// GetCompletedBetween returns the tasks completed in [from, to],
// newest first. Both bounds are calendar dates; the whole of the end
// day is included.
func (db *DB) GetCompletedBetween(teamID string, from, to time.Time) ([]model.Task, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())

	rows, err := db.Query(
		`SELECT `+taskColumns+` FROM tasks
		 WHERE team_id = ? AND completed = 1 AND completed_at >= ? AND completed_at <= ?
		 ORDER BY completed_at DESC`,
		teamID, start.Format(time.RFC3339), end.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed tasks: %w", err)
	}

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := db.loadAssignees(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetProjectsCompletedBetween returns the projects completed in
// [from, to], newest first.
func (db *DB) GetProjectsCompletedBetween(teamID string, from, to time.Time) ([]model.Project, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())

	rows, err := db.Query(
		`SELECT `+projectColumns+`,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id),
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.completed = 1)
		 FROM projects p
		 WHERE p.team_id = ? AND p.completed = 1 AND p.completed_at >= ? AND p.completed_at <= ?
		 ORDER BY p.completed_at DESC`,
		teamID, start.Format(time.RFC3339), end.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed projects: %w", err)
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
