// ABOUTME: Route handlers for the JSON HTTP API.
// ABOUTME: Decodes requests, calls the tracker service, and maps errors to status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/nourish/internal/flags"
	"github.com/harperreed/nourish/internal/lifestyle"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/harperreed/nourish/internal/tracker"
)

type addMealRequest struct {
	Name     string     `json:"name"`
	Calories *float64   `json:"calories,omitempty"`
	LoggedAt *time.Time `json:"logged_at,omitempty"`
}

type addActivityRequest struct {
	ActivityType    string     `json:"activity_type"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
	CaloriesBurned  *float64   `json:"calories_burned,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	PerformedAt     *time.Time `json:"performed_at,omitempty"`
}

type fitnessRequest struct {
	CaloriesBurned *float64 `json:"calories_burned,omitempty"`
	AvgBPM         *float64 `json:"avg_bpm,omitempty"`
	SleepHours     *float64 `json:"sleep_hours,omitempty"`
}

type flagRequest struct {
	Name     any `json:"name"`
	Calories any `json:"calories"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	res := s.svc.LookupNutrition(r.Context(), query)
	if res == nil {
		writeError(w, http.StatusNotFound, "no nutrition data found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	day, err := s.svc.ParseDay(r.URL.Query().Get("date"))
	if err != nil {
		s.fail(w, err)
		return
	}
	meals, err := s.svc.ListMeals(day)
	if err != nil {
		s.fail(w, err)
		return
	}
	if meals == nil {
		meals = []*models.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	var req addMealRequest
	if !decode(w, r, &req) {
		return
	}
	in := tracker.AddMealInput{Name: req.Name, Calories: req.Calories}
	if req.LoggedAt != nil {
		in.LoggedAt = *req.LoggedAt
	}

	meal, err := s.svc.AddMeal(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.DeleteMeal(mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var req addActivityRequest
	if !decode(w, r, &req) {
		return
	}

	a := models.NewActivity(req.ActivityType)
	a.DurationMinutes = req.DurationMinutes
	a.CaloriesBurned = req.CaloriesBurned
	a.Notes = req.Notes
	if req.PerformedAt != nil {
		a.WithPerformedAt(*req.PerformedAt)
	}

	if err := s.svc.LogActivity(a); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleRecordFitness(w http.ResponseWriter, r *http.Request) {
	var req fitnessRequest
	if !decode(w, r, &req) {
		return
	}

	fd, err := s.svc.RecordFitness(tracker.FitnessUpdate{
		Date:           mux.Vars(r)["date"],
		CaloriesBurned: req.CaloriesBurned,
		AvgBPM:         req.AvgBPM,
		SleepHours:     req.SleepHours,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fd)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	day, err := s.svc.ParseDay(r.URL.Query().Get("date"))
	if err != nil {
		s.fail(w, err)
		return
	}
	sum, err := s.svc.DailySummary(day)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.EstimateTarget()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var sig lifestyle.Signals
	if !decode(w, r, &sig) {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Score(sig))
}

func (s *Server) handleFlag(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, flags.CheckValues(req.Name, req.Calories))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrMissingName),
		errors.Is(err, tracker.ErrMissingActivityType),
		errors.Is(err, tracker.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		if s.logger != nil {
			s.logger.Error("request failed", "err", err)
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
