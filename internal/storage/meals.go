// ABOUTME: Meal CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for meals.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

const mealColumns = `id, name, calories, protein_g, carbs_g, fat_g, source, flagged, flag_reason, logged_at, created_at`

// CreateMeal stores a new meal in the database.
func (d *DB) CreateMeal(m *models.Meal) error {
	query := `INSERT INTO meals (` + mealColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var reason *string
	if m.FlagReason != "" {
		reason = &m.FlagReason
	}
	_, err := d.db.Exec(query,
		m.ID.String(),
		m.Name,
		m.Calories,
		m.ProteinG,
		m.CarbsG,
		m.FatG,
		m.Source,
		m.Flagged,
		reason,
		formatTime(m.LoggedAt),
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

// GetMeal retrieves a meal by ID or ID prefix.
func (d *DB) GetMeal(idOrPrefix string) (*models.Meal, error) {
	id, err := d.resolveID("meals", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}

	row := d.db.QueryRow(`SELECT `+mealColumns+` FROM meals WHERE id = ?`, id)
	m, err := scanMeal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get meal: %w: %s", ErrNotFound, idOrPrefix)
		}
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

// ListMeals retrieves meals logged in [from, to), oldest first.
func (d *DB) ListMeals(from, to time.Time, limit int) ([]*models.Meal, error) {
	where, args := rangeClause("logged_at", from, to, nil)
	query := `SELECT ` + mealColumns + ` FROM meals` + where + ` ORDER BY logged_at ASC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("list meals: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// DeleteMeal removes a meal by ID or prefix.
func (d *DB) DeleteMeal(idOrPrefix string) error {
	if err := d.deleteByID("meals", idOrPrefix); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (*models.Meal, error) {
	var m models.Meal
	var idStr, loggedAt, createdAt string
	var reason sql.NullString

	err := row.Scan(&idStr, &m.Name, &m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG,
		&m.Source, &m.Flagged, &reason, &loggedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	m.ID, _ = uuid.Parse(idStr)
	m.FlagReason = reason.String
	m.LoggedAt = parseTime(loggedAt)
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}
