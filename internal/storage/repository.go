// ABOUTME: Repository interface for nourish data storage.
// ABOUTME: Defines the contract for profile, meals, activities, fitness days and lifestyle points.
package storage

import (
	"errors"
	"time"

	"github.com/harperreed/nourish/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the storage interface for nourish data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Profile operations. GetProfile returns an empty profile when none is saved.
	GetProfile() (*models.UserProfile, error)
	SaveProfile(p *models.UserProfile) error

	// Meal operations. Zero from/to leave that end of the range open.
	CreateMeal(m *models.Meal) error
	GetMeal(idOrPrefix string) (*models.Meal, error)
	ListMeals(from, to time.Time, limit int) ([]*models.Meal, error)
	DeleteMeal(idOrPrefix string) error

	// Activity operations
	CreateActivity(a *models.Activity) error
	GetActivity(idOrPrefix string) (*models.Activity, error)
	ListActivities(from, to time.Time, limit int) ([]*models.Activity, error)
	DeleteActivity(idOrPrefix string) error

	// Fitness day operations, keyed by YYYY-MM-DD
	GetFitnessDay(date string) (*models.FitnessDay, error)
	UpsertFitnessDay(fd *models.FitnessDay) error

	// Lifestyle point operations, one per date
	GetLifestylePoint(date string) (*models.LifestylePoint, error)
	UpsertLifestylePoint(lp *models.LifestylePoint) error
	ListLifestylePoints(limit int) ([]*models.LifestylePoint, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
