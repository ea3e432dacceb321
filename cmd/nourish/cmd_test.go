// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands end to end against a temporary SQLite data directory.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "date and time with space", input: "2025-01-31 08:30"},
		{name: "date and time with T", input: "2025-01-31T08:30"},
		{name: "date only", input: "2025-01-31"},
		{name: "RFC3339", input: "2025-01-31T08:30:00Z"},
		{name: "RFC3339 with offset", input: "2025-01-31T08:30:00+05:00"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "invalid random string", input: "not a date", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}

			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestParseTimeUsesLocalZone(t *testing.T) {
	result, err := parseTime("2025-06-15 08:00")
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}
	if result.Location() != time.Local {
		t.Errorf("parseTime location = %v, want Local", result.Location())
	}
	if result.Hour() != 8 || result.Day() != 15 {
		t.Errorf("parseTime returned wrong time: %v", result)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world this is long", 10, "hello w..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q, want %q", got, "ab   ")
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}

func TestRootCmdMetadata(t *testing.T) {
	if rootCmd.Use != "nourish" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "nourish")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}

	want := []string{"profile", "meal", "lookup", "activity", "fitness", "summary",
		"target", "score", "history", "model", "export", "import", "migrate",
		"sync", "mcp", "serve", "version"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestMealCmdAliases(t *testing.T) {
	aliases := map[string]bool{}
	for _, a := range mealCmd.Aliases {
		aliases[a] = true
	}
	if !aliases["m"] {
		t.Error("meal command should have alias 'm'")
	}
	for _, a := range []string{"del", "rm"} {
		found := false
		for _, b := range mealDeleteCmd.Aliases {
			found = found || a == b
		}
		if !found {
			t.Errorf("meal delete should have alias %q", a)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := []string{"json", "yaml", "markdown"}
	if len(exportCmd.ValidArgs) != len(want) {
		t.Fatalf("ValidArgs = %v, want %v", exportCmd.ValidArgs, want)
	}
	for i, v := range want {
		if exportCmd.ValidArgs[i] != v {
			t.Errorf("ValidArgs[%d] = %q, want %q", i, exportCmd.ValidArgs[i], v)
		}
	}
}

// setupTestCLI points config and data at a temp dir and seeds a nutrition table.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "share"))
	t.Setenv("NOURISH_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("NOURISH_BACKEND", "sqlite")
	t.Setenv("NOURISH_LOG_LEVEL", "error")
	t.Setenv("CALORIE_NINJAS_KEY", "")
	t.Setenv("API_NINJAS_KEY", "")
	t.Setenv("EDAMAM_APP_ID", "")
	t.Setenv("EDAMAM_APP_KEY", "")

	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}
	table := `{"oatmeal": {"energy_kcal": 150, "protein_g": 5, "carbs_g": 27, "fat_g": 3}}`
	if err := os.WriteFile(filepath.Join(dataDir, "nutrition_table.json"), []byte(table), 0600); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	color.NoColor = true
	return dataDir
}

// runCLI executes the CLI with fresh flag state and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func openTestDB(t *testing.T, dataDir string) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(dataDir, "nourish.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

func TestMealAddUsesLookup(t *testing.T) {
	dataDir := setupTestCLI(t)

	out := mustRun(t, "meal", "add", "Oatmeal", "--at", "2025-06-01 08:00")
	if !strings.Contains(out, "150 kcal") || !strings.Contains(out, "(local_table)") {
		t.Errorf("unexpected output: %s", out)
	}

	db := openTestDB(t, dataDir)
	meals, err := db.ListMeals(time.Time{}, time.Time{}, 0)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("Expected 1 meal, got %d", len(meals))
	}
	if meals[0].Calories != 150 || meals[0].ProteinG != 5 || meals[0].Source != "local_table" {
		t.Errorf("unexpected meal: %+v", meals[0])
	}
	if meals[0].Flagged {
		t.Error("meal should not be flagged")
	}
}

func TestMealAddManualFallback(t *testing.T) {
	dataDir := setupTestCLI(t)

	mustRun(t, "meal", "add", "grandma's", "stew", "-c", "650", "--at", "2025-06-01 19:00")

	db := openTestDB(t, dataDir)
	meals, _ := db.ListMeals(time.Time{}, time.Time{}, 0)
	if len(meals) != 1 {
		t.Fatalf("Expected 1 meal, got %d", len(meals))
	}
	if meals[0].Name != "grandma's stew" {
		t.Errorf("Name = %q, want joined args", meals[0].Name)
	}
	if meals[0].Calories != 650 || meals[0].Source != "manual" {
		t.Errorf("unexpected meal: %+v", meals[0])
	}
}

func TestMealAddFlagsHighCalories(t *testing.T) {
	dataDir := setupTestCLI(t)

	out := mustRun(t, "meal", "add", "feast", "-c", "2500")
	if !strings.Contains(out, "Unusually high calories") {
		t.Errorf("expected flag reason in output: %s", out)
	}

	db := openTestDB(t, dataDir)
	meals, _ := db.ListMeals(time.Time{}, time.Time{}, 0)
	if len(meals) != 1 || !meals[0].Flagged {
		t.Fatalf("expected one flagged meal, got %+v", meals)
	}
}

func TestMealAddWithoutCaloriesIsFlagged(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "meal", "add", "mystery")
	if !strings.Contains(out, "Calories missing or zero") {
		t.Errorf("expected zero-calorie flag: %s", out)
	}
}

func TestMealAddInvalidTimestamp(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "meal", "add", "oatmeal", "--at", "yesterday"); err == nil {
		t.Error("Expected error for invalid timestamp")
	}
}

func TestMealListAndDelete(t *testing.T) {
	dataDir := setupTestCLI(t)

	out := mustRun(t, "meal", "list", "--date", "2025-06-01")
	if !strings.Contains(out, "No meals found.") {
		t.Errorf("expected empty list: %s", out)
	}

	mustRun(t, "meal", "add", "oatmeal", "--at", "2025-06-01 08:00")
	mustRun(t, "meal", "add", "toast", "-c", "200", "--at", "2025-06-01 09:00")
	mustRun(t, "meal", "add", "dinner", "-c", "700", "--at", "2025-06-02 19:00")

	out = mustRun(t, "meal", "list", "--date", "2025-06-01")
	if !strings.Contains(out, "oatmeal") || !strings.Contains(out, "toast") {
		t.Errorf("missing meals in list: %s", out)
	}
	if strings.Contains(out, "dinner") {
		t.Errorf("meal from another day listed: %s", out)
	}
	if !strings.Contains(out, "350 kcal") {
		t.Errorf("expected day total of 350: %s", out)
	}

	db := openTestDB(t, dataDir)
	meals, _ := db.ListMeals(time.Time{}, time.Time{}, 0)
	var toastID string
	for _, m := range meals {
		if m.Name == "toast" {
			toastID = m.ID.String()[:8]
		}
	}
	db.Close()

	out = mustRun(t, "meal", "delete", toastID)
	if !strings.Contains(out, "Deleted toast") {
		t.Errorf("unexpected delete output: %s", out)
	}

	if _, err := runCLI(t, "meal", "delete", "ffffffff"); err == nil {
		t.Error("Expected error deleting unknown meal")
	}
}

func TestMealFlagCmd(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "meal", "flag", "", "-c", "300")
	if !strings.Contains(out, "Missing meal name") {
		t.Errorf("expected missing name flag: %s", out)
	}

	out = mustRun(t, "meal", "flag", "salad", "-c", "300")
	if !strings.Contains(out, "Not flagged") {
		t.Errorf("expected clean result: %s", out)
	}
}

func TestLookupCmd(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "lookup", "oatmeal")
	if !strings.Contains(out, "150 kcal") {
		t.Errorf("unexpected lookup output: %s", out)
	}

	out = mustRun(t, "lookup", "unknown", "food")
	if !strings.Contains(out, "No nutrition found") {
		t.Errorf("expected miss: %s", out)
	}
}

func TestProfileAndTarget(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "target")
	if !strings.Contains(out, "(formula)") {
		t.Errorf("expected formula target: %s", out)
	}

	mustRun(t, "profile", "set", "--sex", "Male", "--height", "180", "--weight", "80",
		"--activity", "moderate", "--goal", "maintain", "--birth-date", "1990-01-01")

	out = mustRun(t, "profile")
	for _, want := range []string{"male", "180.0 cm", "80.0 kg", "moderate", "1990-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("profile output missing %q: %s", want, out)
		}
	}

	mustRun(t, "profile", "set", "--target", "1800")
	out = mustRun(t, "target")
	if !strings.Contains(out, "1800 kcal") || !strings.Contains(out, "(override)") {
		t.Errorf("expected override target: %s", out)
	}

	// Clearing the override keeps the rest of the profile.
	mustRun(t, "profile", "set", "--target", "0")
	out = mustRun(t, "profile")
	if !strings.Contains(out, "180.0 cm") {
		t.Errorf("height lost after clearing target: %s", out)
	}
	out = mustRun(t, "target")
	if !strings.Contains(out, "(formula)") {
		t.Errorf("expected formula target after clearing override: %s", out)
	}
}

func TestProfileSetRejectsInvalidValues(t *testing.T) {
	setupTestCLI(t)

	cases := [][]string{
		{"profile", "set", "--sex", "robot"},
		{"profile", "set", "--activity", "couch"},
		{"profile", "set", "--goal", "bulk"},
		{"profile", "set", "--birth-date", "01/02/1990"},
	}
	for _, args := range cases {
		if _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestFitnessActivityAndSummary(t *testing.T) {
	dataDir := setupTestCLI(t)

	mustRun(t, "profile", "set", "--target", "2000")
	mustRun(t, "meal", "add", "eggs", "-c", "500", "--at", "2025-06-01 08:00")
	mustRun(t, "meal", "add", "lunch", "-c", "700", "--at", "2025-06-01 11:30")
	mustRun(t, "meal", "add", "dinner", "-c", "800", "--at", "2025-06-01 15:00")

	out := mustRun(t, "fitness", "set", "2025-06-01", "--burned", "300", "--sleep", "7.5")
	if !strings.Contains(out, "2025-06-01") {
		t.Errorf("unexpected fitness output: %s", out)
	}
	mustRun(t, "fitness", "set", "2025-06-01", "--bpm", "64")
	mustRun(t, "activity", "add", "run", "--calories", "200", "--duration", "30", "--at", "2025-06-01 18:00")

	out = mustRun(t, "fitness", "show", "2025-06-01")
	if !strings.Contains(out, "300 kcal") || !strings.Contains(out, "7.5 h") || !strings.Contains(out, "64") {
		t.Errorf("partial update lost a field: %s", out)
	}

	out = mustRun(t, "summary", "2025-06-01")
	for _, want := range []string{"2000 kcal (3 meals)", "(override)", "500 kcal", "3.5 h", "Lifestyle score: 100.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %s", want, out)
		}
	}

	db := openTestDB(t, dataDir)
	lp, err := db.GetLifestylePoint("2025-06-01")
	if err != nil {
		t.Fatalf("GetLifestylePoint failed: %v", err)
	}
	if lp.Points != 100 {
		t.Errorf("Points = %v, want 100", lp.Points)
	}
	db.Close()

	out = mustRun(t, "history")
	if !strings.Contains(out, "2025-06-01") {
		t.Errorf("history missing day: %s", out)
	}

	out = mustRun(t, "activity", "list")
	if !strings.Contains(out, "run") || !strings.Contains(out, "30 min") {
		t.Errorf("activity list missing run: %s", out)
	}

	db = openTestDB(t, dataDir)
	activities, err := db.ListActivities(time.Time{}, time.Time{}, 0)
	if err != nil || len(activities) != 1 {
		t.Fatalf("ListActivities = %v, %v", activities, err)
	}
	db.Close()

	out = mustRun(t, "activity", "delete", activities[0].ID.String()[:8])
	if !strings.Contains(out, "Deleted run") {
		t.Errorf("unexpected delete output: %s", out)
	}

	// Burn drops to 300 of 400 kcal.
	db = openTestDB(t, dataDir)
	lp, err = db.GetLifestylePoint("2025-06-01")
	if err != nil {
		t.Fatalf("GetLifestylePoint failed: %v", err)
	}
	if lp.Points != 93 {
		t.Errorf("Points after delete = %v, want 93", lp.Points)
	}
	db.Close()
}

func TestFitnessShowMissingDay(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "fitness", "show", "2025-06-01")
	if !strings.Contains(out, "No fitness data") {
		t.Errorf("expected missing day message: %s", out)
	}
}

func TestSummaryInvalidDate(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "summary", "June 1st"); err == nil {
		t.Error("Expected error for invalid date")
	}
}

func TestActivityRequiresType(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "activity", "add", "   "); err == nil {
		t.Error("Expected error for blank activity type")
	}
}

func TestScoreCmd(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "score", "--burned", "400", "--sleep", "7.5", "--interval", "3.5",
		"--intake", "2000", "--target", "2000", "--bpm", "64")
	if !strings.Contains(out, "Lifestyle score: 100.00") {
		t.Errorf("expected perfect score: %s", out)
	}

	out = mustRun(t, "score")
	if strings.Contains(out, "100.00") {
		t.Errorf("no burn should not score 100: %s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "meal", "add", "oatmeal", "--at", "2025-06-01 08:00")
	mustRun(t, "fitness", "set", "2025-06-01", "--sleep", "7")

	backup := filepath.Join(t.TempDir(), "backup.json")
	out := mustRun(t, "export", "json", "-o", backup)
	if !strings.Contains(out, "Exported to") {
		t.Errorf("unexpected export output: %s", out)
	}

	out = mustRun(t, "export", "markdown", "--since", "2025-01-01")
	if !strings.Contains(out, "# Nourish Export") || !strings.Contains(out, "oatmeal") {
		t.Errorf("unexpected markdown: %s", out)
	}

	if _, err := runCLI(t, "export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}

	// Import into a fresh data directory.
	dataDir := setupTestCLI(t)
	mustRun(t, "import", backup)

	db := openTestDB(t, dataDir)
	meals, _ := db.ListMeals(time.Time{}, time.Time{}, 0)
	if len(meals) != 1 || meals[0].Name != "oatmeal" {
		t.Errorf("import did not restore meals: %+v", meals)
	}
	fd, err := db.GetFitnessDay("2025-06-01")
	if err != nil || fd.SleepHours == nil || *fd.SleepHours != 7 {
		t.Errorf("import did not restore fitness day: %+v, %v", fd, err)
	}
}

func TestImportMissingFile(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "import", "/nonexistent/backup.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestModelTrainAndStatus(t *testing.T) {
	dataDir := setupTestCLI(t)

	out := mustRun(t, "model", "status")
	if !strings.Contains(out, "No model artifact") {
		t.Errorf("expected missing model: %s", out)
	}

	out = mustRun(t, "model", "train", "--samples", "2000")
	if !strings.Contains(out, "Trained model") {
		t.Errorf("unexpected train output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "target_cal_model.yaml")); err != nil {
		t.Fatalf("model artifact not written: %v", err)
	}

	out = mustRun(t, "model", "status")
	if !strings.Contains(out, "Model loads") {
		t.Errorf("expected loadable model: %s", out)
	}

	out = mustRun(t, "target")
	if !strings.Contains(out, "(model)") {
		t.Errorf("expected model target: %s", out)
	}
}

func TestMigrate(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "meal", "add", "oatmeal")

	out := mustRun(t, "migrate", "--to", "charm", "--dry-run")
	if !strings.Contains(out, "Meals: 1") || !strings.Contains(out, "Dry run") {
		t.Errorf("unexpected dry run output: %s", out)
	}

	if _, err := runCLI(t, "migrate", "--to", "sqlite"); err == nil {
		t.Error("Expected error migrating to the active backend")
	}
}

func TestSyncStatusWithSQLite(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "sync", "status")
	if !strings.Contains(out, "Backend: sqlite") || !strings.Contains(out, "only available with the charm backend") {
		t.Errorf("unexpected status output: %s", out)
	}
}

func TestSyncWipeCanceled(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "sync", "wipe")
	if !strings.Contains(out, "Canceled.") {
		t.Errorf("expected cancel without confirmation: %s", out)
	}
}

func TestVersionCmd(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "nourish ") {
		t.Errorf("unexpected version output: %s", out)
	}
}

func TestUnknownBackend(t *testing.T) {
	setupTestCLI(t)
	t.Setenv("NOURISH_BACKEND", "postgres")

	if _, err := runCLI(t, "target"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
