package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/cyclefit/internal/cycle"
	"github.com/julianstephens/cyclefit/internal/export"
	"github.com/julianstephens/cyclefit/internal/generator"
	"github.com/julianstephens/cyclefit/internal/logger"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/tracker"
	"github.com/julianstephens/cyclefit/internal/workout"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type createUserRequest struct {
	Name        string             `json:"name" validate:"required,max=64"`
	Preferences models.Preferences `json:"preferences"`
}

type startPlanRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

type recordDayRequest struct {
	Completed []json.RawMessage `json:"completed" validate:"max=100"`
	Feedback  string            `json:"feedback" validate:"max=2000"`
}

// completedValue reads one entry of "completed". Numbers and numeric strings
// are taken as-is; null, blank and "-" mean not done. Anything else is 0 and
// reported as not ok.
func completedValue(raw json.RawMessage) (float64, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch v := v.(type) {
	case nil:
		return 0, true
	case float64:
		return v, true
	case string:
		v = strings.TrimSpace(v)
		if v == "" || v == "-" {
			return 0, true
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

type planResponse struct {
	Plan              models.Plan `json:"plan"`
	Ratios            []float64   `json:"ratios"`
	AverageCompletion float64     `json:"average_completion"`
	TodayIndex        int         `json:"today_index"` // -1 when today is outside the plan
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrUserNotFound), errors.Is(err, workout.ErrNoCurrentPlan):
		return http.StatusNotFound
	case errors.Is(err, workout.ErrActivePlanExists), errors.Is(err, workout.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, tracker.ErrDayIndexOutOfRange),
		errors.Is(err, models.ErrInvalidPreferences),
		errors.Is(err, generator.ErrInvalidDifficulty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v and validates it. An empty body leaves v untouched.
func (s *Server) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.svc.CreateUser(req.Name, req.Preferences)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.svc.GetUser(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := s.decode(r, &prefs); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.svc.UpdatePreferences(chi.URLParam(r, "userID"), prefs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) currentPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, today, err := s.svc.TodayIndex(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	ratios := make([]float64, len(plan.Days))
	for i, day := range plan.Days {
		ratios[i] = tracker.CompletionRatio(day)
	}
	writeJSON(w, http.StatusOK, planResponse{
		Plan:              plan,
		Ratios:            ratios,
		AverageCompletion: cycle.AverageCompletion(plan),
		TodayIndex:        today,
	})
}

func (s *Server) startPlan(w http.ResponseWriter, r *http.Request) {
	var req startPlanRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.svc.StartPlan(chi.URLParam(r, "userID"), req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) recordDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: day must be an integer", errBadRequest))
		return
	}

	var req recordDayRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	values := make([]float64, len(req.Completed))
	for i, raw := range req.Completed {
		v, ok := completedValue(raw)
		if !ok {
			logger.Warn("Completion value coerced", "day", day, "index", i, "value", string(raw))
		}
		values[i] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.svc.RecordDay(chi.URLParam(r, "userID"), day, values, req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries, err := s.svc.History(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) exportPlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	plan, err := s.svc.CurrentPlan(chi.URLParam(r, "userID"))
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	f, err := export.Build(plan)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "plan-"+plan.StartDate+".xlsx"))
	if err := f.Write(w); err != nil {
		logger.Warn("failed to stream workbook", "error", err)
	}
}
