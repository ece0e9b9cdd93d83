package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

const commitmentColumns = `id, title, category, recurring, days_of_week, date_range_start, date_range_end,
	specific_dates, start_time, end_time, is_all_day, day_specific_timings, modified_occurrences,
	deleted_occurrences, counts_toward_daily_hours, deleted_at`

func scanCommitment(row interface{ Scan(...any) error }) (models.FixedCommitment, error) {
	var c models.FixedCommitment
	var daysJSON, specificDatesJSON, daySpecificJSON, modifiedJSON, deletedOccJSON string
	var dateRangeStart, dateRangeEnd sql.NullString
	var recurring, isAllDay, countsToward bool
	var deletedAt sql.NullString

	err := row.Scan(
		&c.ID, &c.Title, &c.Category, &recurring, &daysJSON, &dateRangeStart, &dateRangeEnd,
		&specificDatesJSON, &c.StartTime, &c.EndTime, &isAllDay, &daySpecificJSON, &modifiedJSON,
		&deletedOccJSON, &countsToward, &deletedAt,
	)
	if err != nil {
		return models.FixedCommitment{}, err
	}

	c.Recurring = recurring
	c.IsAllDay = isAllDay
	c.CountsTowardDailyHours = countsToward
	if deletedAt.Valid {
		c.DeletedAt = deletedAt.String
	}
	if dateRangeStart.String != "" || dateRangeEnd.String != "" {
		c.DateRange = &models.DateRange{Start: dateRangeStart.String, End: dateRangeEnd.String}
	}

	var weekdayInts []int
	if err := json.Unmarshal([]byte(daysJSON), &weekdayInts); err != nil {
		return models.FixedCommitment{}, fmt.Errorf("parsing days_of_week for commitment %s: %w", c.ID, err)
	}
	for _, d := range weekdayInts {
		c.DaysOfWeek = append(c.DaysOfWeek, time.Weekday(d))
	}

	if err := json.Unmarshal([]byte(specificDatesJSON), &c.SpecificDates); err != nil {
		return models.FixedCommitment{}, fmt.Errorf("parsing specific_dates for commitment %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(deletedOccJSON), &c.DeletedOccurrences); err != nil {
		return models.FixedCommitment{}, fmt.Errorf("parsing deleted_occurrences for commitment %s: %w", c.ID, err)
	}

	var daySpecific map[int]models.TimingOverride
	if err := json.Unmarshal([]byte(daySpecificJSON), &daySpecific); err != nil {
		return models.FixedCommitment{}, fmt.Errorf("parsing day_specific_timings for commitment %s: %w", c.ID, err)
	}
	if len(daySpecific) > 0 {
		c.DaySpecificTimings = make(map[time.Weekday]models.TimingOverride, len(daySpecific))
		for d, override := range daySpecific {
			c.DaySpecificTimings[time.Weekday(d)] = override
		}
	}

	if err := json.Unmarshal([]byte(modifiedJSON), &c.ModifiedOccurrences); err != nil {
		return models.FixedCommitment{}, fmt.Errorf("parsing modified_occurrences for commitment %s: %w", c.ID, err)
	}

	return c, nil
}

func (s *Store) AddCommitment(c models.FixedCommitment) error {
	return s.UpdateCommitment(c)
}

func (s *Store) GetCommitment(id string) (models.FixedCommitment, error) {
	row := s.db.QueryRow("SELECT "+commitmentColumns+" FROM commitments WHERE id = $1 AND deleted_at IS NULL", id)
	return scanCommitment(row)
}

func (s *Store) GetAllCommitments() ([]models.FixedCommitment, error) {
	return s.queryCommitments("SELECT " + commitmentColumns + " FROM commitments WHERE deleted_at IS NULL")
}

func (s *Store) GetAllCommitmentsIncludingDeleted() ([]models.FixedCommitment, error) {
	return s.queryCommitments("SELECT " + commitmentColumns + " FROM commitments")
}

func (s *Store) queryCommitments(query string) ([]models.FixedCommitment, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commitments []models.FixedCommitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, c)
	}
	return commitments, rows.Err()
}

func (s *Store) UpdateCommitment(c models.FixedCommitment) error {
	weekdayInts := make([]int, len(c.DaysOfWeek))
	for i, d := range c.DaysOfWeek {
		weekdayInts[i] = int(d)
	}
	daysJSON, err := json.Marshal(weekdayInts)
	if err != nil {
		return fmt.Errorf("failed to marshal days_of_week: %w", err)
	}

	specificDatesJSON, err := json.Marshal(c.SpecificDates)
	if err != nil {
		return fmt.Errorf("failed to marshal specific_dates: %w", err)
	}

	deletedOccJSON, err := json.Marshal(c.DeletedOccurrences)
	if err != nil {
		return fmt.Errorf("failed to marshal deleted_occurrences: %w", err)
	}

	daySpecific := make(map[int]models.TimingOverride, len(c.DaySpecificTimings))
	for d, override := range c.DaySpecificTimings {
		daySpecific[int(d)] = override
	}
	daySpecificJSON, err := json.Marshal(daySpecific)
	if err != nil {
		return fmt.Errorf("failed to marshal day_specific_timings: %w", err)
	}

	modifiedJSON, err := json.Marshal(c.ModifiedOccurrences)
	if err != nil {
		return fmt.Errorf("failed to marshal modified_occurrences: %w", err)
	}

	var dateRangeStart, dateRangeEnd sql.NullString
	if c.DateRange != nil {
		dateRangeStart = sql.NullString{String: c.DateRange.Start, Valid: true}
		dateRangeEnd = sql.NullString{String: c.DateRange.End, Valid: true}
	}

	var deletedAt sql.NullString
	if c.DeletedAt != "" {
		deletedAt = sql.NullString{String: c.DeletedAt, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO commitments (
			id, title, category, recurring, days_of_week, date_range_start, date_range_end,
			specific_dates, start_time, end_time, is_all_day, day_specific_timings, modified_occurrences,
			deleted_occurrences, counts_toward_daily_hours, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			recurring = EXCLUDED.recurring,
			days_of_week = EXCLUDED.days_of_week,
			date_range_start = EXCLUDED.date_range_start,
			date_range_end = EXCLUDED.date_range_end,
			specific_dates = EXCLUDED.specific_dates,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_all_day = EXCLUDED.is_all_day,
			day_specific_timings = EXCLUDED.day_specific_timings,
			modified_occurrences = EXCLUDED.modified_occurrences,
			deleted_occurrences = EXCLUDED.deleted_occurrences,
			counts_toward_daily_hours = EXCLUDED.counts_toward_daily_hours,
			deleted_at = EXCLUDED.deleted_at`,
		c.ID, c.Title, c.Category, c.Recurring, string(daysJSON), dateRangeStart, dateRangeEnd,
		string(specificDatesJSON), c.StartTime, c.EndTime, c.IsAllDay, string(daySpecificJSON), string(modifiedJSON),
		string(deletedOccJSON), c.CountsTowardDailyHours, deletedAt,
	)
	return err
}

func (s *Store) DeleteCommitment(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM commitments WHERE id = $1", id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("commitment with id %s not found", id)
		}
		return fmt.Errorf("failed to check commitment existence: %w", err)
	}
	if deletedAt.Valid {
		return fmt.Errorf("commitment with id %s is already deleted", id)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE commitments SET deleted_at = $1 WHERE id = $2", now, id)
	return err
}

func (s *Store) RestoreCommitment(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM commitments WHERE id = $1", id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("commitment with id %s not found", id)
		}
		return fmt.Errorf("failed to check commitment existence: %w", err)
	}
	if !deletedAt.Valid {
		return fmt.Errorf("cannot restore a commitment that is not deleted: %s", id)
	}

	_, err = s.db.Exec("UPDATE commitments SET deleted_at = NULL WHERE id = $1", id)
	return err
}
