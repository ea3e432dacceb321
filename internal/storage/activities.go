// ABOUTME: Activity CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for activities.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

const activityColumns = `id, activity_type, duration_minutes, calories_burned, notes, performed_at, created_at`

// CreateActivity stores a new activity in the database.
func (d *DB) CreateActivity(a *models.Activity) error {
	query := `
		INSERT INTO activities (id, activity_type, duration_minutes, calories_burned, notes, performed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		a.ID.String(),
		a.ActivityType,
		a.DurationMinutes,
		a.CaloriesBurned,
		a.Notes,
		formatTime(a.PerformedAt),
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// GetActivity retrieves an activity by ID or prefix.
func (d *DB) GetActivity(idOrPrefix string) (*models.Activity, error) {
	id, err := d.resolveID("activities", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	row := d.db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get activity: %w: %s", ErrNotFound, idOrPrefix)
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// ListActivities retrieves activities performed in [from, to), most recent first.
func (d *DB) ListActivities(from, to time.Time, limit int) ([]*models.Activity, error) {
	where, args := rangeClause("performed_at", from, to, nil)
	query := `SELECT ` + activityColumns + ` FROM activities` + where + ` ORDER BY performed_at DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("list activities: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// DeleteActivity removes an activity by ID or prefix.
func (d *DB) DeleteActivity(idOrPrefix string) error {
	if err := d.deleteByID("activities", idOrPrefix); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var a models.Activity
	var idStr, performedAt, createdAt string
	var duration, burned sql.NullFloat64
	var notes sql.NullString

	if err := row.Scan(&idStr, &a.ActivityType, &duration, &burned, &notes, &performedAt, &createdAt); err != nil {
		return nil, err
	}

	a.ID, _ = uuid.Parse(idStr)
	a.PerformedAt = parseTime(performedAt)
	a.CreatedAt = parseTime(createdAt)
	if duration.Valid {
		a.DurationMinutes = &duration.Float64
	}
	if burned.Valid {
		a.CaloriesBurned = &burned.Float64
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	return &a, nil
}
