// Package workout runs the load, mutate, save cycle around the plan engine.
package workout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/cyclefit/internal/cycle"
	"github.com/julianstephens/cyclefit/internal/generator"
	"github.com/julianstephens/cyclefit/internal/logger"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/tracker"
	"github.com/julianstephens/cyclefit/internal/utils"
)

var (
	ErrUserExists       = errors.New("user already exists")
	ErrActivePlanExists = errors.New("an active plan already exists")
	ErrNoCurrentPlan    = errors.New("no current plan")
)

// RecordResult describes what a recording changed
type RecordResult struct {
	UserID     string            `json:"user_id"`
	DayIndex   int               `json:"day_index"`
	Plan       models.Plan       `json:"plan"`       // the plan the day belongs to, after recording
	CarryOver  []models.Exercise `json:"carry_over"` // exercises appended to the next day
	Completion float64           `json:"completion"`
	NextPlan   *models.Plan      `json:"next_plan,omitempty"` // set when the last day rolled the cycle over
}

// Option configures a Service
type Option func(*Service)

// WithBeforeWrite registers a hook that runs before every recording is saved.
// A failing hook aborts the save.
func WithBeforeWrite(fn func() error) Option {
	return func(s *Service) {
		s.beforeWrite = fn
	}
}

// WithNow overrides the timestamp source used for CreatedAt/UpdatedAt
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service is not safe for concurrent use; callers serialize access.
type Service struct {
	store       storage.Provider
	clock       Clock
	now         func() time.Time
	beforeWrite func() error
}

func NewService(store storage.Provider, clock Clock, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: clock,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today resolves the current date for a user, honouring their timezone when
// the clock supports it.
func (s *Service) today(user models.User) (string, error) {
	if zc, ok := s.clock.(zonedClock); ok {
		return zc.TodayIn(user.Preferences.Timezone)
	}
	return s.clock.Today(), nil
}

func (s *Service) CreateUser(name string, prefs models.Preferences) (models.User, error) {
	name = strings.TrimSpace(name)
	now := s.now().UTC()
	user := models.User{
		ID:          uuid.New().String(),
		Name:        name,
		Preferences: prefs.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := user.Validate(); err != nil {
		return models.User{}, err
	}

	if _, err := s.store.GetUserByName(name); err == nil {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserExists, name)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return models.User{}, err
	}

	if err := s.store.AddUser(user); err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			return models.User{}, fmt.Errorf("%w: %s", ErrUserExists, name)
		}
		return models.User{}, fmt.Errorf("failed to add user: %w", err)
	}

	logger.Info("user created", "user", user.ID, "name", name)
	return user, nil
}

// GetUser resolves idOrName as a user id first and a name second.
func (s *Service) GetUser(idOrName string) (models.User, error) {
	user, err := s.store.GetUser(idOrName)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return models.User{}, err
	}
	return s.store.GetUserByName(idOrName)
}

func (s *Service) ListUsers() ([]models.User, error) {
	return s.store.GetAllUsers()
}

// UpdatePreferences replaces the user's preferences. Existing plans keep the
// targets they were generated with.
func (s *Service) UpdatePreferences(userID string, prefs models.Preferences) (models.User, error) {
	if err := prefs.Validate(); err != nil {
		return models.User{}, err
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return models.User{}, err
	}

	user.Preferences = prefs.Clone()
	user.UpdatedAt = s.now().UTC()
	if err := s.store.SaveUser(user); err != nil {
		return models.User{}, fmt.Errorf("failed to save preferences: %w", err)
	}

	logger.Info("preferences updated", "user", user.ID, "difficulty", prefs.Difficulty, "equipment", prefs.AvailableEquipment())
	return user, nil
}

// StartPlan generates a new plan from the user's preferences. An empty
// startDate means today. Refused while a current plan exists.
func (s *Service) StartPlan(userID, startDate string) (models.Plan, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return models.Plan{}, err
	}

	today, err := s.today(user)
	if err != nil {
		return models.Plan{}, err
	}
	if idx := user.CurrentPlanIndex(today); idx >= 0 {
		return models.Plan{}, fmt.Errorf("%w: %s..%s", ErrActivePlanExists, user.Plans[idx].StartDate, user.Plans[idx].EndDate)
	}

	start, err := utils.ResolveDate(startDate, today)
	if err != nil {
		return models.Plan{}, err
	}

	plan, err := generator.Generate(start, user.Preferences.Difficulty, user.Preferences)
	if err != nil {
		return models.Plan{}, err
	}

	user.Plans = append(user.Plans, plan)
	user.UpdatedAt = s.now().UTC()
	if err := s.store.SaveUser(user); err != nil {
		return models.Plan{}, fmt.Errorf("failed to save plan: %w", err)
	}

	logger.Info("plan generated", "user", user.ID, "plan", plan.ID, "start", plan.StartDate, "end", plan.EndDate, "difficulty", plan.Difficulty)
	return plan, nil
}

// CurrentPlan returns the user's current plan or ErrNoCurrentPlan.
func (s *Service) CurrentPlan(userID string) (models.Plan, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return models.Plan{}, err
	}
	_, plan, err := s.currentPlan(user)
	return plan, err
}

func (s *Service) currentPlan(user models.User) (int, models.Plan, error) {
	today, err := s.today(user)
	if err != nil {
		return -1, models.Plan{}, err
	}
	idx := user.CurrentPlanIndex(today)
	if idx < 0 {
		return -1, models.Plan{}, fmt.Errorf("%w for %s on %s", ErrNoCurrentPlan, user.Name, today)
	}
	return idx, user.Plans[idx], nil
}

// RecordDay records completed amounts for one day of the current plan and saves
// the user once. Recording the last day appends the next cycle's plan. On any
// error nothing is saved.
func (s *Service) RecordDay(userID string, dayIndex int, values []float64, feedback string) (RecordResult, error) {
	loaded, err := s.GetUser(userID)
	if err != nil {
		return RecordResult{}, err
	}

	user := loaded.Clone()
	idx, _, err := s.currentPlan(user)
	if err != nil {
		return RecordResult{}, err
	}

	plan := &user.Plans[idx]
	appended, err := tracker.RecordCompletion(plan, dayIndex, values, feedback)
	if err != nil {
		return RecordResult{}, err
	}

	result := RecordResult{
		UserID:     user.ID,
		DayIndex:   dayIndex,
		Completion: plan.Days[dayIndex].Completion,
	}
	if appended {
		result.CarryOver = tracker.CarryOver(plan.Days[dayIndex])
	}
	last := dayIndex == plan.LastDayIndex()
	result.Plan = plan.Clone()

	if last {
		next, err := cycle.Advance(&user, idx)
		if err != nil {
			return RecordResult{}, fmt.Errorf("failed to start next cycle: %w", err)
		}
		result.NextPlan = &next
	}

	if s.beforeWrite != nil {
		if err := s.beforeWrite(); err != nil {
			return RecordResult{}, fmt.Errorf("pre-save hook failed: %w", err)
		}
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.store.SaveUser(user); err != nil {
		return RecordResult{}, fmt.Errorf("failed to save recording: %w", err)
	}

	logger.Info("day recorded", "user", user.ID, "plan", result.Plan.ID, "day", dayIndex, "completion", result.Completion)
	if appended {
		logger.Info("carry-over appended", "user", user.ID, "day", dayIndex+1, "count", len(result.CarryOver))
	}
	if result.NextPlan != nil {
		logger.Info("cycle rolled over", "user", user.ID,
			"average", cycle.AverageCompletion(result.Plan),
			"next_plan", result.NextPlan.ID, "difficulty", result.NextPlan.Difficulty)
	}
	return result, nil
}

// RecordToday records against the day of the current plan that matches today.
func (s *Service) RecordToday(userID string, values []float64, feedback string) (RecordResult, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return RecordResult{}, err
	}
	_, plan, err := s.currentPlan(user)
	if err != nil {
		return RecordResult{}, err
	}
	today, err := s.today(user)
	if err != nil {
		return RecordResult{}, err
	}
	dayIndex, err := plan.DayIndexFor(today)
	if err != nil {
		return RecordResult{}, fmt.Errorf("%w: %v", tracker.ErrDayIndexOutOfRange, err)
	}
	return s.RecordDay(user.ID, dayIndex, values, feedback)
}

// TodayIndex returns the current plan and the index of today within it, or -1
// when today falls outside the plan (e.g. a plan that has not started yet).
func (s *Service) TodayIndex(userID string) (models.Plan, int, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return models.Plan{}, -1, err
	}
	_, plan, err := s.currentPlan(user)
	if err != nil {
		return models.Plan{}, -1, err
	}
	today, err := s.today(user)
	if err != nil {
		return models.Plan{}, -1, err
	}
	idx, err := plan.DayIndexFor(today)
	if err != nil {
		return plan, -1, nil
	}
	return plan, idx, nil
}

// History summarizes every plan of the user, oldest first.
func (s *Service) History(userID string) ([]models.PlanSummary, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	today, err := s.today(user)
	if err != nil {
		return nil, err
	}

	current := user.CurrentPlanIndex(today)
	summaries := make([]models.PlanSummary, 0, len(user.Plans))
	for i, plan := range user.Plans {
		summary := cycle.Summarize(plan)
		summary.Current = i == current
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
