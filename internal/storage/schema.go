// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for profile, meals, activities, fitness_days and lifestyle_points.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		birth_date TEXT,
		sex TEXT,
		height_cm REAL,
		weight_kg REAL,
		activity_level TEXT,
		activity_multiplier REAL,
		goal TEXT,
		target_calories REAL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		calories REAL NOT NULL DEFAULT 0,
		protein_g REAL NOT NULL DEFAULT 0,
		carbs_g REAL NOT NULL DEFAULT 0,
		fat_g REAL NOT NULL DEFAULT 0,
		source TEXT NOT NULL,
		flagged INTEGER NOT NULL DEFAULT 0,
		flag_reason TEXT,
		logged_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		activity_type TEXT NOT NULL,
		duration_minutes REAL,
		calories_burned REAL,
		notes TEXT,
		performed_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS fitness_days (
		date TEXT PRIMARY KEY,
		calories_burned REAL NOT NULL DEFAULT 0,
		avg_bpm REAL,
		sleep_hours REAL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lifestyle_points (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		points REAL NOT NULL,
		reason TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_meals_logged ON meals(logged_at DESC);
	CREATE INDEX IF NOT EXISTS idx_activities_performed ON activities(performed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_lifestyle_points_date ON lifestyle_points(date DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
