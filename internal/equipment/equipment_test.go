package equipment

import (
	"reflect"
	"strings"
	"testing"

	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/models"
)

func TestHasAll(t *testing.T) {
	tests := []struct {
		name      string
		required  []string
		available map[string]bool
		want      bool
	}{
		{"nothing required", nil, nil, true},
		{"all present", []string{"gantere", "banca"}, map[string]bool{"gantere": true, "banca": true, "bara": true}, true},
		{"one missing", []string{"gantere", "banca"}, map[string]bool{"gantere": true}, false},
		{"marked unavailable", []string{"gantere"}, map[string]bool{"gantere": false}, false},
		{"nil available", []string{"bara"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAll(tt.required, tt.available); got != tt.want {
				t.Errorf("HasAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissing(t *testing.T) {
	got := Missing([]string{"kettlebell", "gantere", "bara", "gantere"}, map[string]bool{"bara": true})
	want := []string{"gantere", "kettlebell"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
	if got := Missing([]string{"bara"}, map[string]bool{"bara": true}); len(got) != 0 {
		t.Errorf("Missing() = %v, want empty", got)
	}
}

func TestAdapt_PassThrough(t *testing.T) {
	tmpl := models.ExerciseTemplate{
		Name:              "Tracțiuni",
		BaseTarget:        10,
		Unit:              models.UnitReps,
		Description:       "Priză largă.",
		RequiredEquipment: []string{"bara"},
	}

	got := Adapt(tmpl, map[string]bool{"bara": true})
	want := models.Exercise{
		Name:              "Tracțiuni",
		Target:            10,
		Unit:              models.UnitReps,
		Description:       "Priză largă.",
		RequiredEquipment: []string{"bara"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Adapt() = %+v, want %+v", got, want)
	}
}

func TestAdapt_Halves(t *testing.T) {
	tests := []struct {
		name   string
		target int
		unit   models.Unit
		want   int
	}{
		{"even", 30, models.UnitReps, 15},
		{"odd rounds away from zero", 25, models.UnitReps, 13},
		{"one floors at one", 1, models.UnitReps, 1},
		{"three", 3, models.UnitSec, 2},
		{"zero untouched", 0, models.UnitReps, 0},
		{"rest untouched", 1, models.UnitRest, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := models.ExerciseTemplate{
				Name:              "Ex",
				BaseTarget:        tt.target,
				Unit:              tt.unit,
				Description:       "Desc.",
				RequiredEquipment: []string{"gantere"},
			}
			got := Adapt(tmpl, map[string]bool{})
			if got.Target != tt.want {
				t.Errorf("Adapt().Target = %d, want %d", got.Target, tt.want)
			}
			if got.Name != "Ex"+constants.AdaptedNameMarker {
				t.Errorf("Adapt().Name = %q", got.Name)
			}
			if got.Description != "Desc."+constants.AdaptedDescriptionNote {
				t.Errorf("Adapt().Description = %q", got.Description)
			}
			if got.Completed != 0 {
				t.Errorf("Adapt().Completed = %v, want 0", got.Completed)
			}
		})
	}
}

func TestAdapt_DoesNotMutateTemplate(t *testing.T) {
	tmpl := models.ExerciseTemplate{Name: "Presă", BaseTarget: 20, Unit: models.UnitReps, RequiredEquipment: []string{"gantere"}}

	got := Adapt(tmpl, nil)
	got.RequiredEquipment[0] = "altceva"

	if tmpl.RequiredEquipment[0] != "gantere" {
		t.Error("Adapt() shares the required equipment slice with the template")
	}
	if tmpl.BaseTarget != 20 || strings.Contains(tmpl.Name, constants.AdaptedNameMarker) {
		t.Errorf("template mutated: %+v", tmpl)
	}
}
