// ABOUTME: Meal and activity operations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys and client-side filtering.
package charm

import (
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/nourish/internal/models"
)

// CreateMeal stores a new meal in the KV store.
func (c *Client) CreateMeal(m *models.Meal) error {
	return c.set(MealPrefix+m.ID.String(), m)
}

// GetMeal retrieves a meal by ID or ID prefix.
func (c *Client) GetMeal(idOrPrefix string) (*models.Meal, error) {
	data, err := c.getByIDPrefix(MealPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	m, err := unmarshalJSON[models.Meal](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal meal: %w", err)
	}
	return m, nil
}

// ListMeals retrieves meals logged in [from, to), oldest first.
func (c *Client) ListMeals(from, to time.Time, limit int) ([]*models.Meal, error) {
	allData, err := c.listByPrefix(MealPrefix)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	var meals []*models.Meal
	for _, data := range allData {
		m, err := unmarshalJSON[models.Meal](data)
		if err != nil {
			continue // Skip invalid entries
		}
		if inRange(m.LoggedAt, from, to) {
			meals = append(meals, m)
		}
	}

	sort.Slice(meals, func(i, j int) bool {
		return meals[i].LoggedAt.Before(meals[j].LoggedAt)
	})
	if limit > 0 && len(meals) > limit {
		meals = meals[:limit]
	}
	return meals, nil
}

// DeleteMeal removes a meal by ID or prefix.
func (c *Client) DeleteMeal(idOrPrefix string) error {
	if err := c.deleteByIDPrefix(MealPrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

// CreateActivity stores a new activity in the KV store.
func (c *Client) CreateActivity(a *models.Activity) error {
	return c.set(ActivityPrefix+a.ID.String(), a)
}

// GetActivity retrieves an activity by ID or ID prefix.
func (c *Client) GetActivity(idOrPrefix string) (*models.Activity, error) {
	data, err := c.getByIDPrefix(ActivityPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	a, err := unmarshalJSON[models.Activity](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal activity: %w", err)
	}
	return a, nil
}

// ListActivities retrieves activities performed in [from, to), most recent first.
func (c *Client) ListActivities(from, to time.Time, limit int) ([]*models.Activity, error) {
	allData, err := c.listByPrefix(ActivityPrefix)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	var activities []*models.Activity
	for _, data := range allData {
		a, err := unmarshalJSON[models.Activity](data)
		if err != nil {
			continue
		}
		if inRange(a.PerformedAt, from, to) {
			activities = append(activities, a)
		}
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].PerformedAt.After(activities[j].PerformedAt)
	})
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// DeleteActivity removes an activity by ID or prefix.
func (c *Client) DeleteActivity(idOrPrefix string) error {
	if err := c.deleteByIDPrefix(ActivityPrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
