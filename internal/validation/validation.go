package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/tracker"
	"github.com/julianstephens/cyclefit/internal/utils"
)

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictWrongDayCount      ConflictType = "wrong_day_count"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictEndDateMismatch    ConflictType = "end_date_mismatch"
	ConflictInvalidDifficulty  ConflictType = "invalid_difficulty"
	ConflictNegativeCompletion ConflictType = "negative_completion"
	ConflictStaleCompletion    ConflictType = "stale_completion"
	ConflictInvalidUnit        ConflictType = "invalid_unit"
	ConflictOverlappingPlans   ConflictType = "overlapping_plans"
	ConflictDuplicatePlanID    ConflictType = "duplicate_plan_id"
	ConflictDuplicateUserName  ConflictType = "duplicate_user_name"
	ConflictInvalidPreferences ConflictType = "invalid_preferences"
)

const completionTolerance = 1e-9

// Conflict represents a detected problem in a user's stored data
type Conflict struct {
	Type        ConflictType
	Description string
	UserID      string
	PlanID      string
	DayIndex    int // -1 when the conflict is not tied to a day
	Fixable     bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks stored users and plans for integrity problems
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateUsers checks every user plus cross-user constraints.
func (v *Validator) ValidateUsers(users []models.User) ValidationResult {
	var result ValidationResult

	seen := make(map[string]string, len(users))
	for _, user := range users {
		key := strings.ToLower(user.Name)
		if other, ok := seen[key]; ok {
			result.add(Conflict{
				Type:        ConflictDuplicateUserName,
				Description: fmt.Sprintf("users %s and %s share the name %q", other, user.ID, user.Name),
				UserID:      user.ID,
				DayIndex:    -1,
			})
		}
		seen[key] = user.ID

		userResult := v.ValidateUser(user)
		result.Conflicts = append(result.Conflicts, userResult.Conflicts...)
	}
	return result
}

// ValidateUser checks a user's preferences and plan history.
func (v *Validator) ValidateUser(user models.User) ValidationResult {
	var result ValidationResult

	if err := user.Preferences.Validate(); err != nil {
		result.add(Conflict{
			Type:        ConflictInvalidPreferences,
			Description: fmt.Sprintf("user %s: %v", user.Name, err),
			UserID:      user.ID,
			DayIndex:    -1,
		})
	}

	ids := make(map[string]bool, len(user.Plans))
	for i, plan := range user.Plans {
		if ids[plan.ID] {
			result.add(Conflict{
				Type:        ConflictDuplicatePlanID,
				Description: fmt.Sprintf("user %s: plan id %s appears more than once", user.Name, plan.ID),
				UserID:      user.ID,
				PlanID:      plan.ID,
				DayIndex:    -1,
			})
		}
		ids[plan.ID] = true

		planResult := v.ValidatePlan(plan)
		for _, c := range planResult.Conflicts {
			c.UserID = user.ID
			result.add(c)
		}

		if i > 0 && plansOverlap(user.Plans[i-1], plan) {
			result.add(Conflict{
				Type: ConflictOverlappingPlans,
				Description: fmt.Sprintf("user %s: plan %s (%s..%s) overlaps plan %s (%s..%s)",
					user.Name, plan.ID, plan.StartDate, plan.EndDate,
					user.Plans[i-1].ID, user.Plans[i-1].StartDate, user.Plans[i-1].EndDate),
				UserID:   user.ID,
				PlanID:   plan.ID,
				DayIndex: -1,
			})
		}
	}
	return result
}

// plansOverlap reports whether next starts on or before prev ends. Dates are
// YYYY-MM-DD so string order is date order.
func plansOverlap(prev, next models.Plan) bool {
	return next.StartDate != "" && prev.EndDate != "" && next.StartDate <= prev.EndDate
}

// ValidatePlan checks one plan's shape and cached values.
func (v *Validator) ValidatePlan(plan models.Plan) ValidationResult {
	var result ValidationResult
	planConflict := func(t ConflictType, format string, args ...any) {
		result.add(Conflict{
			Type:        t,
			Description: fmt.Sprintf("plan %s: ", plan.ID) + fmt.Sprintf(format, args...),
			PlanID:      plan.ID,
			DayIndex:    -1,
		})
	}

	if len(plan.Days) != constants.CycleLength {
		planConflict(ConflictWrongDayCount, "has %d days, want %d", len(plan.Days), constants.CycleLength)
	}

	if plan.Difficulty <= 0 || math.IsNaN(plan.Difficulty) || math.IsInf(plan.Difficulty, 0) {
		planConflict(ConflictInvalidDifficulty, "difficulty %v is not a positive number", plan.Difficulty)
	}

	if _, err := utils.ParseDate(plan.StartDate); err != nil {
		planConflict(ConflictInvalidDate, "start date %q is invalid", plan.StartDate)
	} else if want, _ := utils.AddDays(plan.StartDate, constants.CycleLength-1); plan.EndDate != want {
		planConflict(ConflictEndDateMismatch, "end date %s, want %s", plan.EndDate, want)
	}

	for i, day := range plan.Days {
		dayConflict := func(t ConflictType, fixable bool, format string, args ...any) {
			result.add(Conflict{
				Type:        t,
				Description: fmt.Sprintf("plan %s day %d: ", plan.ID, i) + fmt.Sprintf(format, args...),
				PlanID:      plan.ID,
				DayIndex:    i,
				Fixable:     fixable,
			})
		}

		negative := false
		for _, ex := range day.Exercises {
			if !ex.Unit.Valid() {
				dayConflict(ConflictInvalidUnit, false, "exercise %q has unknown unit %q", ex.Name, ex.Unit)
			}
			if ex.Completed < 0 || math.IsNaN(ex.Completed) {
				dayConflict(ConflictNegativeCompletion, true, "exercise %q has completed value %v", ex.Name, ex.Completed)
				negative = true
			}
		}

		// A negative completion also skews the ratio; report it once.
		if !negative {
			if want := tracker.CompletionRatio(day); math.Abs(day.Completion-want) > completionTolerance {
				dayConflict(ConflictStaleCompletion, true, "cached completion %.4f, recomputed %.4f", day.Completion, want)
			}
		}
	}

	return result
}

// Fix repairs the fixable conflicts of a user in place: completed values are
// clamped to zero and cached completions recomputed. Structural problems are
// left for the operator.
func (v *Validator) Fix(user *models.User) []FixAction {
	var actions []FixAction
	if user == nil {
		return actions
	}

	result := v.ValidateUser(*user)
	handled := make(map[string]bool)
	for _, conflict := range result.Conflicts {
		key := fmt.Sprintf("%s/%d/%s", conflict.PlanID, conflict.DayIndex, conflict.Type)
		if !conflict.Fixable || handled[key] {
			continue
		}
		handled[key] = true
		plan := findPlan(user, conflict.PlanID)
		if plan == nil || conflict.DayIndex < 0 || conflict.DayIndex >= len(plan.Days) {
			continue
		}
		day := &plan.Days[conflict.DayIndex]

		switch conflict.Type {
		case ConflictNegativeCompletion:
			for j := range day.Exercises {
				if day.Exercises[j].Completed < 0 || math.IsNaN(day.Exercises[j].Completed) {
					day.Exercises[j].Completed = 0
				}
			}
			day.Completion = tracker.CompletionRatio(*day)
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("reset negative completions on plan %s day %d", plan.ID, conflict.DayIndex),
				SourceConflict: conflict,
			})
		case ConflictStaleCompletion:
			day.Completion = tracker.CompletionRatio(*day)
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("recomputed completion on plan %s day %d", plan.ID, conflict.DayIndex),
				SourceConflict: conflict,
			})
		}
	}
	return actions
}

func findPlan(user *models.User, id string) *models.Plan {
	for i := range user.Plans {
		if user.Plans[i].ID == id {
			return &user.Plans[i]
		}
	}
	return nil
}
