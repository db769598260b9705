// Package equipment substitutes reduced-volume variants for exercises whose
// equipment the user does not have.
package equipment

import (
	"math"
	"sort"

	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/models"
)

// HasAll reports whether every required tag is marked available.
// An empty requirement is always satisfied.
func HasAll(required []string, available map[string]bool) bool {
	for _, tag := range required {
		if !available[tag] {
			return false
		}
	}
	return true
}

// Missing returns the required tags that are not available, sorted and de-duplicated.
func Missing(required []string, available map[string]bool) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, tag := range required {
		if available[tag] || seen[tag] {
			continue
		}
		seen[tag] = true
		missing = append(missing, tag)
	}
	sort.Strings(missing)
	return missing
}

// Adapt instantiates a template for the given equipment. When something is
// missing the target is halved (never below 1 for a positive target) and the
// name and description are marked. The template is not modified.
func Adapt(tmpl models.ExerciseTemplate, available map[string]bool) models.Exercise {
	ex := models.Exercise{
		Name:        tmpl.Name,
		Target:      tmpl.BaseTarget,
		Unit:        tmpl.Unit,
		Description: tmpl.Description,
	}
	if tmpl.RequiredEquipment != nil {
		ex.RequiredEquipment = append([]string(nil), tmpl.RequiredEquipment...)
	}

	if HasAll(tmpl.RequiredEquipment, available) {
		return ex
	}

	ex.Target = halve(tmpl.BaseTarget, tmpl.Unit)
	ex.Name += constants.AdaptedNameMarker
	ex.Description += constants.AdaptedDescriptionNote
	return ex
}

func halve(target int, unit models.Unit) int {
	if target <= 0 || unit == models.UnitRest {
		return target
	}
	// math.Round rounds half away from zero
	halved := int(math.Round(float64(target) / 2))
	if halved < 1 {
		halved = 1
	}
	return halved
}
