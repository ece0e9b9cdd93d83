package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

const taskColumns = `id, title, category, estimated_minutes, deadline, deadline_type, importance,
	status, target_frequency, respect_frequency_for_deadlines, min_session_minutes,
	max_session_minutes, is_one_sitting, start_date, preferred_time_slots, created_at, deleted_at`

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	var preferredSlots string
	var importance, respectFreq, oneSitting bool
	var deletedAt sql.NullString

	err := row.Scan(
		&t.ID, &t.Title, &t.Category, &t.EstimatedMinutes, &t.Deadline, &t.DeadlineType, &importance,
		&t.Status, &t.TargetFrequency, &respectFreq, &t.MinSessionMinutes,
		&t.MaxSessionMinutes, &oneSitting, &t.StartDate, &preferredSlots, &t.CreatedAt, &deletedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Importance = importance
	t.RespectFrequencyForDeadlines = respectFreq
	t.IsOneSitting = oneSitting
	if deletedAt.Valid {
		t.DeletedAt = deletedAt.String
	}
	if preferredSlots != "" {
		if err := json.Unmarshal([]byte(preferredSlots), &t.PreferredTimeSlots); err != nil {
			return models.Task{}, fmt.Errorf("parsing preferred_time_slots for task %s: %w", t.ID, err)
		}
	}

	return t, nil
}

func (s *Store) AddTask(task models.Task) error {
	return s.UpdateTask(task)
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ? AND deleted_at IS NULL", id)
	return scanTask(row)
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	return s.queryTasks("SELECT " + taskColumns + " FROM tasks WHERE deleted_at IS NULL")
}

func (s *Store) GetAllTasksIncludingDeleted() ([]models.Task, error) {
	return s.queryTasks("SELECT " + taskColumns + " FROM tasks")
}

func (s *Store) queryTasks(query string) ([]models.Task, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(task models.Task) error {
	slotsJSON, err := json.Marshal(task.PreferredTimeSlots)
	if err != nil {
		return fmt.Errorf("failed to marshal preferred time slots: %w", err)
	}

	var deletedAt sql.NullString
	if task.DeletedAt != "" {
		deletedAt = sql.NullString{String: task.DeletedAt, Valid: true}
	}
	if task.CreatedAt == "" {
		task.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO tasks (
			id, title, category, estimated_minutes, deadline, deadline_type, importance,
			status, target_frequency, respect_frequency_for_deadlines, min_session_minutes,
			max_session_minutes, is_one_sitting, start_date, preferred_time_slots, created_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Category, task.EstimatedMinutes, task.Deadline, task.DeadlineType, task.Importance,
		task.Status, task.TargetFrequency, task.RespectFrequencyForDeadlines, task.MinSessionMinutes,
		task.MaxSessionMinutes, task.IsOneSitting, task.StartDate, string(slotsJSON), task.CreatedAt, deletedAt,
	)
	return err
}

func (s *Store) DeleteTask(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM tasks WHERE id = ?", id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("task with id %s not found", id)
		}
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if deletedAt.Valid {
		return fmt.Errorf("task with id %s is already deleted", id)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE tasks SET deleted_at = ? WHERE id = ?", now, id)
	return err
}

func (s *Store) RestoreTask(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM tasks WHERE id = ?", id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("task with id %s not found", id)
		}
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if !deletedAt.Valid {
		return fmt.Errorf("cannot restore a task that is not deleted: %s", id)
	}

	_, err = s.db.Exec("UPDATE tasks SET deleted_at = NULL WHERE id = ?", id)
	return err
}
