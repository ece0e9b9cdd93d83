package postgres

import (
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

func (s *Store) AddAlert(a models.Alert) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO alerts (id, task_id, message, date, fired, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			task_id = EXCLUDED.task_id,
			message = EXCLUDED.message,
			date = EXCLUDED.date,
			fired = EXCLUDED.fired,
			created_at = EXCLUDED.created_at`,
		a.ID, a.TaskID, a.Message, a.Date, a.Fired, a.CreatedAt.Format(rfc3339),
	)
	return err
}

func (s *Store) GetPendingAlerts() ([]models.Alert, error) {
	return s.queryAlerts("SELECT id, task_id, message, date, fired, created_at FROM alerts WHERE fired = false ORDER BY date")
}

func (s *Store) GetAlertsForTask(taskID string) ([]models.Alert, error) {
	rows, err := s.db.Query(
		"SELECT id, task_id, message, date, fired, created_at FROM alerts WHERE task_id = $1 ORDER BY date", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func (s *Store) queryAlerts(query string) ([]models.Alert, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func scanAlerts(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]models.Alert, error) {
	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		var createdAt string
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Message, &a.Date, &a.Fired, &createdAt); err != nil {
			return nil, err
		}
		t, err := parseRFC3339(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for alert %s: %w", a.ID, err)
		}
		a.CreatedAt = t
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *Store) MarkAlertFired(id string) error {
	res, err := s.db.Exec("UPDATE alerts SET fired = true WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("alert with id %s not found", id)
	}
	return nil
}
