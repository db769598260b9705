// Package catalog holds the fixed weekly exercise templates plans are built from.
package catalog

import (
	"sort"

	"github.com/julianstephens/cyclefit/internal/constants"
	"github.com/julianstephens/cyclefit/internal/models"
)

var week = [constants.DaysPerWeek][]models.ExerciseTemplate{
	// 0: picioare
	{
		{Name: "Genuflexiuni cu gantere", BaseTarget: 30, Unit: models.UnitReps, Description: "Ține ganterele pe lângă corp, coboară până la paralel.", RequiredEquipment: []string{constants.EquipmentDumbbells}},
		{Name: "Fandări alternative", BaseTarget: 20, Unit: models.UnitReps, Description: "Pas mare înainte, genunchiul din spate aproape de sol."},
		{Name: "Pod fesier", BaseTarget: 25, Unit: models.UnitReps, Description: "Din culcat, ridică bazinul și strânge fesierii sus."},
		{Name: "Ridicări pe vârfuri", BaseTarget: 30, Unit: models.UnitReps, Description: "Urcă lent pe vârfuri, coboară controlat."},
		{Name: "Plank", BaseTarget: 60, Unit: models.UnitSec, Description: "Corp drept de la umeri la glezne."},
	},
	// 1: piept și brațe
	{
		{Name: "Flotări", BaseTarget: 20, Unit: models.UnitReps, Description: "Coatele la 45 de grade față de corp."},
		{Name: "Presă cu gantere", BaseTarget: 20, Unit: models.UnitReps, Description: "Din culcat pe spate, împinge ganterele vertical.", RequiredEquipment: []string{constants.EquipmentDumbbells}},
		{Name: "Dips la bancă", BaseTarget: 15, Unit: models.UnitReps, Description: "Mâinile pe marginea băncii, coboară până la 90 de grade.", RequiredEquipment: []string{constants.EquipmentBench}},
		{Name: "Flexii biceps cu gantere", BaseTarget: 24, Unit: models.UnitReps, Description: "Coatele fixe pe lângă corp.", RequiredEquipment: []string{constants.EquipmentDumbbells}},
		{Name: "Plank lateral", BaseTarget: 30, Unit: models.UnitSec, Description: "Pe fiecare parte, șoldul sus."},
	},
	// 2: cardio
	{
		{Name: "Alergare ușoară", BaseTarget: 20, Unit: models.UnitMin, Description: "Ritm în care poți purta o conversație."},
		{Name: "Jumping jacks", BaseTarget: 50, Unit: models.UnitReps, Description: "Ritm constant, aterizare pe vârfuri."},
		{Name: "Mountain climbers", BaseTarget: 40, Unit: models.UnitReps, Description: "Din poziția de plank, genunchii spre piept alternativ."},
		{Name: "Sărituri cu coarda", BaseTarget: 5, Unit: models.UnitMin, Description: "Sărituri mici, încheieturile lucrează.", RequiredEquipment: []string{constants.EquipmentJumpRope}},
	},
	// 3: spate
	{
		{Name: "Tracțiuni", BaseTarget: 10, Unit: models.UnitReps, Description: "Priză largă, bărbia peste bară.", RequiredEquipment: []string{constants.EquipmentPullUpBar}},
		{Name: "Ramat cu gantere", BaseTarget: 20, Unit: models.UnitReps, Description: "Sprijinit pe bancă, trage gantera spre șold.", RequiredEquipment: []string{constants.EquipmentDumbbells, constants.EquipmentBench}},
		{Name: "Superman", BaseTarget: 20, Unit: models.UnitReps, Description: "Din culcat pe burtă, ridică brațele și picioarele."},
		{Name: "Plank", BaseTarget: 60, Unit: models.UnitSec, Description: "Corp drept de la umeri la glezne."},
	},
	// 4: abdomen
	{
		{Name: "Abdomene", BaseTarget: 30, Unit: models.UnitReps, Description: "Ridică umerii de pe sol, fără să tragi de gât."},
		{Name: "Ridicări de picioare", BaseTarget: 20, Unit: models.UnitReps, Description: "Spatele lipit de sol, picioarele întinse."},
		{Name: "Russian twist", BaseTarget: 30, Unit: models.UnitReps, Description: "Rotește trunchiul dintr-o parte în alta."},
		{Name: "Plank", BaseTarget: 90, Unit: models.UnitSec, Description: "Corp drept de la umeri la glezne."},
	},
	// 5: full body
	{
		{Name: "Burpees", BaseTarget: 20, Unit: models.UnitReps, Description: "Flotare jos, săritură sus."},
		{Name: "Kettlebell swing", BaseTarget: 25, Unit: models.UnitReps, Description: "Mișcarea pornește din șold, nu din brațe.", RequiredEquipment: []string{constants.EquipmentKettlebell}},
		{Name: "Genuflexiuni", BaseTarget: 30, Unit: models.UnitReps, Description: "Greutatea pe călcâie, pieptul sus."},
		{Name: "Flotări", BaseTarget: 15, Unit: models.UnitReps, Description: "Coatele la 45 de grade față de corp."},
		{Name: "Mobilitate", BaseTarget: 10, Unit: models.UnitMin, Description: "Rotații de umeri, șolduri și glezne."},
	},
	// 6: odihnă
	{
		{Name: "Odihnă", BaseTarget: 1, Unit: models.UnitRest, Description: "Zi de recuperare. Marchează ziua când te-ai odihnit."},
	},
}

// TemplatesFor returns the templates for a weekday slot (0..6). The slice is a
// fresh copy on every call; out-of-range slots yield an empty slice.
func TemplatesFor(weekday int) []models.ExerciseTemplate {
	if weekday < 0 || weekday >= len(week) {
		return []models.ExerciseTemplate{}
	}

	src := week[weekday]
	out := make([]models.ExerciseTemplate, len(src))
	for i, tmpl := range src {
		out[i] = tmpl
		if tmpl.RequiredEquipment != nil {
			out[i].RequiredEquipment = append([]string(nil), tmpl.RequiredEquipment...)
		}
	}
	return out
}

// EquipmentTags returns every equipment tag required by at least one template, sorted.
func EquipmentTags() []string {
	seen := make(map[string]bool)
	for _, day := range week {
		for _, tmpl := range day {
			for _, tag := range tmpl.RequiredEquipment {
				seen[tag] = true
			}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// FullEquipment returns preferences-style availability with every known tag set.
func FullEquipment() map[string]bool {
	equipment := make(map[string]bool)
	for _, tag := range EquipmentTags() {
		equipment[tag] = true
	}
	return equipment
}
