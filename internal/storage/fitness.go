// ABOUTME: Fitness day and lifestyle point storage for SQLite.
// ABOUTME: Both are keyed by calendar date and written with upserts.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

// GetFitnessDay returns the fitness data for date (YYYY-MM-DD).
func (d *DB) GetFitnessDay(date string) (*models.FitnessDay, error) {
	query := `SELECT date, calories_burned, avg_bpm, sleep_hours, updated_at FROM fitness_days WHERE date = ?`

	var fd models.FitnessDay
	var bpm, sleep sql.NullFloat64
	var updatedAt string
	err := d.db.QueryRow(query, date).Scan(&fd.Date, &fd.CaloriesBurned, &bpm, &sleep, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get fitness day: %w: %s", ErrNotFound, date)
	}
	if err != nil {
		return nil, fmt.Errorf("get fitness day: %w", err)
	}

	fd.AvgBPM = nullFloat(bpm)
	fd.SleepHours = nullFloat(sleep)
	fd.UpdatedAt = parseTime(updatedAt)
	return &fd, nil
}

// UpsertFitnessDay inserts or replaces the fitness data for fd.Date.
func (d *DB) UpsertFitnessDay(fd *models.FitnessDay) error {
	query := `
		INSERT INTO fitness_days (date, calories_burned, avg_bpm, sleep_hours, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			calories_burned = excluded.calories_burned,
			avg_bpm = excluded.avg_bpm,
			sleep_hours = excluded.sleep_hours,
			updated_at = excluded.updated_at
	`
	fd.UpdatedAt = time.Now()
	_, err := d.db.Exec(query, fd.Date, fd.CaloriesBurned, fd.AvgBPM, fd.SleepHours, formatTime(fd.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert fitness day: %w", err)
	}
	return nil
}

// GetLifestylePoint returns the lifestyle point for date.
func (d *DB) GetLifestylePoint(date string) (*models.LifestylePoint, error) {
	query := `SELECT id, date, points, reason, created_at FROM lifestyle_points WHERE date = ?`
	lp, err := scanLifestylePoint(d.db.QueryRow(query, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get lifestyle point: %w: %s", ErrNotFound, date)
	}
	if err != nil {
		return nil, fmt.Errorf("get lifestyle point: %w", err)
	}
	return lp, nil
}

// UpsertLifestylePoint inserts or updates the point for lp.Date, keeping the
// original ID when one exists.
func (d *DB) UpsertLifestylePoint(lp *models.LifestylePoint) error {
	query := `
		INSERT INTO lifestyle_points (id, date, points, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			points = excluded.points,
			reason = excluded.reason
	`
	_, err := d.db.Exec(query, lp.ID.String(), lp.Date, lp.Points, lp.Reason, formatTime(lp.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert lifestyle point: %w", err)
	}
	return nil
}

// ListLifestylePoints returns points, most recent date first.
func (d *DB) ListLifestylePoints(limit int) ([]*models.LifestylePoint, error) {
	query := `SELECT id, date, points, reason, created_at FROM lifestyle_points ORDER BY date DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lifestyle points: %w", err)
	}
	defer rows.Close()

	var points []*models.LifestylePoint
	for rows.Next() {
		lp, err := scanLifestylePoint(rows)
		if err != nil {
			return nil, fmt.Errorf("list lifestyle points: %w", err)
		}
		points = append(points, lp)
	}
	return points, rows.Err()
}

func scanLifestylePoint(row rowScanner) (*models.LifestylePoint, error) {
	var lp models.LifestylePoint
	var idStr, createdAt string
	var reason sql.NullString
	if err := row.Scan(&idStr, &lp.Date, &lp.Points, &reason, &createdAt); err != nil {
		return nil, err
	}
	lp.ID, _ = uuid.Parse(idStr)
	lp.Reason = reason.String
	lp.CreatedAt = parseTime(createdAt)
	return &lp, nil
}

// listFitnessDays returns every stored fitness day, oldest first.
func (d *DB) listFitnessDays() ([]*models.FitnessDay, error) {
	rows, err := d.db.Query(`SELECT date FROM fitness_days ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list fitness days: %w", err)
	}
	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan fitness day: %w", err)
		}
		dates = append(dates, date)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	days := make([]*models.FitnessDay, 0, len(dates))
	for _, date := range dates {
		fd, err := d.GetFitnessDay(date)
		if err != nil {
			return nil, err
		}
		days = append(days, fd)
	}
	return days, nil
}
