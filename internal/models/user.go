package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/cyclefit/internal/utils"
)

// ErrInvalidPreferences is returned when preferences fail validation
var ErrInvalidPreferences = errors.New("invalid preferences")

// Preferences are the user-editable knobs that seed the next generated plan.
// They never change an existing plan.
type Preferences struct {
	Difficulty float64         `json:"difficulty" validate:"gt=0"`           // baseline multiplier
	Equipment  map[string]bool `json:"equipment"`                            // tag -> available
	Timezone   string          `json:"timezone,omitempty" validate:"max=64"` // IANA name or "Local"
}

// Validate checks the preferences with struct tags plus the constraints tags cannot express.
func (p Preferences) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	if math.IsInf(p.Difficulty, 0) {
		return fmt.Errorf("%w: difficulty must be finite", ErrInvalidPreferences)
	}
	for tag := range p.Equipment {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: equipment tag cannot be empty", ErrInvalidPreferences)
		}
	}
	if _, err := utils.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidPreferences, p.Timezone, err)
	}
	return nil
}

// AvailableEquipment returns the sorted list of tags marked available
func (p Preferences) AvailableEquipment() []string {
	var tags []string
	for tag, ok := range p.Equipment {
		if ok {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// Clone returns a copy of the preferences with its own equipment map
func (p Preferences) Clone() Preferences {
	if p.Equipment != nil {
		equipment := make(map[string]bool, len(p.Equipment))
		for k, v := range p.Equipment {
			equipment[k] = v
		}
		p.Equipment = equipment
	}
	return p
}

type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name" validate:"required,max=64"`
	Preferences Preferences `json:"preferences" validate:"-"` // checked by Preferences.Validate
	Plans       []Plan      `json:"plans"`                    // append-only history, oldest first
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Validate checks the user's identity fields and preferences
func (u User) Validate() error {
	validate := validator.New()
	if err := validate.Struct(u); err != nil {
		return err
	}
	return u.Preferences.Validate()
}

// CurrentPlanIndex returns the index of the most recently appended plan whose
// end date is not before today, or -1 when there is none.
func (u User) CurrentPlanIndex(today string) int {
	for i := len(u.Plans) - 1; i >= 0; i-- {
		if !u.Plans[i].IsExpired(today) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the user so a transaction can be abandoned
// without touching the loaded value.
func (u User) Clone() User {
	u.Preferences = u.Preferences.Clone()
	if u.Plans != nil {
		plans := make([]Plan, len(u.Plans))
		for i, p := range u.Plans {
			plans[i] = p.Clone()
		}
		u.Plans = plans
	}
	return u
}
