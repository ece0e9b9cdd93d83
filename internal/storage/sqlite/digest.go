package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

func (s *Store) SaveUnscheduledDigest(d models.UnscheduledDigest) error {
	remediesJSON, err := json.Marshal(d.Remedies)
	if err != nil {
		return fmt.Errorf("failed to marshal remedies: %w", err)
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO unscheduled_digest (day, total_unscheduled_minutes, urgency, remedies, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.Day, d.TotalUnscheduledMinutes, d.Urgency, string(remediesJSON), d.UpdatedAt.Format(rfc3339),
	)
	return err
}

func (s *Store) GetUnscheduledDigest(day string) (models.UnscheduledDigest, error) {
	row := s.db.QueryRow(
		"SELECT day, total_unscheduled_minutes, urgency, remedies, updated_at FROM unscheduled_digest WHERE day = ?",
		day,
	)
	return scanDigest(row)
}

func (s *Store) GetUnscheduledDigests(startDay, endDay string) ([]models.UnscheduledDigest, error) {
	rows, err := s.db.Query(
		"SELECT day, total_unscheduled_minutes, urgency, remedies, updated_at FROM unscheduled_digest WHERE day >= ? AND day <= ? ORDER BY day",
		startDay, endDay,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var digests []models.UnscheduledDigest
	for rows.Next() {
		d, err := scanDigest(rows)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

func scanDigest(row interface{ Scan(...any) error }) (models.UnscheduledDigest, error) {
	var d models.UnscheduledDigest
	var remediesJSON, updatedAt string

	if err := row.Scan(&d.Day, &d.TotalUnscheduledMinutes, &d.Urgency, &remediesJSON, &updatedAt); err != nil {
		return models.UnscheduledDigest{}, err
	}

	if remediesJSON != "" {
		if err := json.Unmarshal([]byte(remediesJSON), &d.Remedies); err != nil {
			return models.UnscheduledDigest{}, fmt.Errorf("parsing remedies for digest %s: %w", d.Day, err)
		}
	}

	t, err := parseRFC3339(updatedAt)
	if err != nil {
		return models.UnscheduledDigest{}, fmt.Errorf("parsing updated_at for digest %s: %w", d.Day, err)
	}
	d.UpdatedAt = t

	return d, nil
}
