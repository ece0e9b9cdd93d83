package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kmosley/taskplan/internal/models"
)

func (s *Store) SavePlan(plan models.StudyPlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO plans (date, total_scheduled_minutes) VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET total_scheduled_minutes = EXCLUDED.total_scheduled_minutes`,
		plan.Date, plan.TotalScheduledMinutes,
	); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM sessions WHERE plan_date = $1", plan.Date); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sessions (
			plan_date, task_id, session_number, start_time, end_time, allocated_minutes,
			status, is_manual_override, skip_reason, skipped_at, original_date, original_start_time,
			rescheduled_at, reschedule_history
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, session := range plan.PlannedTasks {
		historyJSON, err := json.Marshal(session.RescheduleHistory)
		if err != nil {
			return fmt.Errorf("failed to marshal reschedule history: %w", err)
		}

		var skippedAt, rescheduledAt sql.NullString
		if session.SkippedAt != nil {
			skippedAt = sql.NullString{String: session.SkippedAt.Format(rfc3339), Valid: true}
		}
		if session.RescheduledAt != nil {
			rescheduledAt = sql.NullString{String: session.RescheduledAt.Format(rfc3339), Valid: true}
		}

		if _, err := stmt.Exec(
			plan.Date, session.TaskID, session.SessionNumber, session.StartTime, session.EndTime, session.AllocatedMinutes,
			session.Status, session.IsManualOverride, session.SkipReason, skippedAt, session.OriginalDate, session.OriginalStartTime,
			rescheduledAt, string(historyJSON),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetPlan(date string) (models.StudyPlan, error) {
	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM plans WHERE date = $1)", date).Scan(&exists); err != nil {
		return models.StudyPlan{}, err
	}
	if !exists {
		return models.StudyPlan{}, fmt.Errorf("no plan found for date: %s", date)
	}

	sessions, err := s.sessionsForDate(date)
	if err != nil {
		return models.StudyPlan{}, err
	}

	plan := models.StudyPlan{Date: date, PlannedTasks: sessions}
	plan.Recompute()
	return plan, nil
}

func (s *Store) GetAllPlans() ([]models.StudyPlan, error) {
	rows, err := s.db.Query("SELECT date FROM plans ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	plans := make([]models.StudyPlan, 0, len(dates))
	for _, date := range dates {
		sessions, err := s.sessionsForDate(date)
		if err != nil {
			return nil, err
		}
		plan := models.StudyPlan{Date: date, PlannedTasks: sessions}
		plan.Recompute()
		plans = append(plans, plan)
	}
	return plans, nil
}

func (s *Store) DeletePlan(date string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM plans WHERE date = $1", date)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("no plan found for date: %s", date)
	}

	if _, err := tx.Exec("DELETE FROM sessions WHERE plan_date = $1", date); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) sessionsForDate(date string) ([]models.StudySession, error) {
	rows, err := s.db.Query(`
		SELECT task_id, session_number, start_time, end_time, allocated_minutes, status,
			is_manual_override, skip_reason, skipped_at, original_date, original_start_time,
			rescheduled_at, reschedule_history
		FROM sessions WHERE plan_date = $1 ORDER BY start_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		session := models.StudySession{PlanDate: date}
		var skippedAt, rescheduledAt sql.NullString
		var historyJSON string

		if err := rows.Scan(
			&session.TaskID, &session.SessionNumber, &session.StartTime, &session.EndTime, &session.AllocatedMinutes, &session.Status,
			&session.IsManualOverride, &session.SkipReason, &skippedAt, &session.OriginalDate, &session.OriginalStartTime,
			&rescheduledAt, &historyJSON,
		); err != nil {
			return nil, err
		}

		if skippedAt.Valid {
			t, err := parseRFC3339(skippedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing skipped_at for session %s: %w", session.Key(), err)
			}
			session.SkippedAt = &t
		}
		if rescheduledAt.Valid {
			t, err := parseRFC3339(rescheduledAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing rescheduled_at for session %s: %w", session.Key(), err)
			}
			session.RescheduledAt = &t
		}
		if historyJSON != "" {
			if err := json.Unmarshal([]byte(historyJSON), &session.RescheduleHistory); err != nil {
				return nil, fmt.Errorf("parsing reschedule_history for session %s: %w", session.Key(), err)
			}
		}

		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
