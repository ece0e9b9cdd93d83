package sqlite

import (
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

func (s *Store) AppendRedistributionLog(entries []models.RemovedSessionLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO redistribution_log (task_id, original_date, start_time, end_time, status, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(rfc3339)
	for _, e := range entries {
		if _, err := stmt.Exec(e.TaskID, e.OriginalDate, e.StartTime, e.EndTime, e.Status, e.Reason, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetRedistributionLog(taskID string) ([]models.RemovedSessionLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT task_id, original_date, start_time, end_time, status, reason
		FROM redistribution_log WHERE task_id = ? ORDER BY created_at`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.RemovedSessionLogEntry
	for rows.Next() {
		var e models.RemovedSessionLogEntry
		if err := rows.Scan(&e.TaskID, &e.OriginalDate, &e.StartTime, &e.EndTime, &e.Status, &e.Reason); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
