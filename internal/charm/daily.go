// ABOUTME: Profile, fitness day and lifestyle point operations for Charm KV storage.
// ABOUTME: Date-keyed records use the YYYY-MM-DD date as the key suffix.
package charm

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/storage"
)

// GetProfile returns the saved profile, or an empty one.
func (c *Client) GetProfile() (*models.UserProfile, error) {
	data, err := c.get(ProfileKey)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.UserProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p, err := unmarshalJSON[models.UserProfile](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

// SaveProfile replaces the saved profile.
func (c *Client) SaveProfile(p *models.UserProfile) error {
	p.UpdatedAt = time.Now()
	return c.set(ProfileKey, p)
}

// GetFitnessDay returns the fitness data for date.
func (c *Client) GetFitnessDay(date string) (*models.FitnessDay, error) {
	data, err := c.get(FitnessPrefix + date)
	if err != nil {
		return nil, fmt.Errorf("get fitness day: %w", err)
	}
	fd, err := unmarshalJSON[models.FitnessDay](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal fitness day: %w", err)
	}
	return fd, nil
}

// UpsertFitnessDay inserts or replaces the fitness data for fd.Date.
func (c *Client) UpsertFitnessDay(fd *models.FitnessDay) error {
	fd.UpdatedAt = time.Now()
	return c.set(FitnessPrefix+fd.Date, fd)
}

// GetLifestylePoint returns the lifestyle point for date.
func (c *Client) GetLifestylePoint(date string) (*models.LifestylePoint, error) {
	data, err := c.get(LifestylePrefix + date)
	if err != nil {
		return nil, fmt.Errorf("get lifestyle point: %w", err)
	}
	lp, err := unmarshalJSON[models.LifestylePoint](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal lifestyle point: %w", err)
	}
	return lp, nil
}

// UpsertLifestylePoint stores the point for lp.Date, keeping the ID of an
// existing point for the same date.
func (c *Client) UpsertLifestylePoint(lp *models.LifestylePoint) error {
	if existing, err := c.GetLifestylePoint(lp.Date); err == nil {
		lp.ID = existing.ID
		lp.CreatedAt = existing.CreatedAt
	}
	return c.set(LifestylePrefix+lp.Date, lp)
}

// ListLifestylePoints returns points, most recent date first.
func (c *Client) ListLifestylePoints(limit int) ([]*models.LifestylePoint, error) {
	allData, err := c.listByPrefix(LifestylePrefix)
	if err != nil {
		return nil, fmt.Errorf("list lifestyle points: %w", err)
	}

	var points []*models.LifestylePoint
	for _, data := range allData {
		lp, err := unmarshalJSON[models.LifestylePoint](data)
		if err != nil {
			continue
		}
		points = append(points, lp)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date > points[j].Date
	})
	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}
	return points, nil
}

func (c *Client) listFitnessDays() ([]*models.FitnessDay, error) {
	allData, err := c.listByPrefix(FitnessPrefix)
	if err != nil {
		return nil, fmt.Errorf("list fitness days: %w", err)
	}

	var days []*models.FitnessDay
	for _, data := range allData {
		fd, err := unmarshalJSON[models.FitnessDay](data)
		if err != nil {
			continue
		}
		days = append(days, fd)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days, nil
}

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	data := &storage.ExportData{
		Version:    storage.ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "nourish",
	}

	profile, err := c.GetProfile()
	if err != nil {
		return nil, err
	}
	if !profile.UpdatedAt.IsZero() {
		data.Profile = profile
	}
	if data.Meals, err = c.ListMeals(time.Time{}, time.Time{}, 0); err != nil {
		return nil, err
	}
	if data.Activities, err = c.ListActivities(time.Time{}, time.Time{}, 0); err != nil {
		return nil, err
	}
	if data.FitnessDays, err = c.listFitnessDays(); err != nil {
		return nil, err
	}
	if data.LifestylePoints, err = c.ListLifestylePoints(0); err != nil {
		return nil, err
	}
	return data, nil
}

// ImportData imports data from an export file.
func (c *Client) ImportData(data *storage.ExportData) error {
	return storage.ImportInto(c, data)
}
