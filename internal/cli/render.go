package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/cyclefit/internal/cycle"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/tracker"
	"github.com/julianstephens/cyclefit/internal/workout"
)

const barWidth = 10

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	LabelStyle   = lipgloss.NewStyle().Bold(true)
	todayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// ProgressBar renders ratio as a fixed-width bar followed by a percentage
func ProgressBar(ratio float64) string {
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + fmt.Sprintf(" %3.0f%%", ratio*100)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderPlanHeader renders the one-line plan summary
func RenderPlanHeader(plan models.Plan) string {
	return TitleStyle.Render(fmt.Sprintf("Plan %s..%s", plan.StartDate, plan.EndDate)) +
		MutedStyle.Render(fmt.Sprintf("  difficulty %.2f  average %s", plan.Difficulty, ProgressBar(cycle.AverageCompletion(plan))))
}

// RenderPlan renders an overview of all days; today is highlighted when todayIndex >= 0.
func RenderPlan(plan models.Plan, todayIndex int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Day", "Date", "Exercises", "Completion", "Feedback").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row == todayIndex {
				return cellStyle.Inherit(todayStyle)
			}
			return cellStyle
		})

	for i, day := range plan.Days {
		date, _ := plan.DateForDay(i)
		label := strconv.Itoa(i)
		if i == todayIndex {
			label += " *"
		}
		t.Row(label, date, strconv.Itoa(len(day.Exercises)), ProgressBar(tracker.CompletionRatio(day)), day.Feedback)
	}

	return RenderPlanHeader(plan) + "\n" + t.String()
}

// RenderDay renders the exercises of one day with targets and progress.
func RenderDay(plan models.Plan, index int) (string, error) {
	if index < 0 || index >= len(plan.Days) {
		return "", fmt.Errorf("%w: %d", tracker.ErrDayIndexOutOfRange, index)
	}
	day := plan.Days[index]
	date, err := plan.DateForDay(index)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Day %d  %s", index, date)))
	b.WriteString("  " + ProgressBar(tracker.CompletionRatio(day)) + "\n\n")

	for i, ex := range day.Exercises {
		target := fmt.Sprintf("%s/%d %s", formatAmount(ex.Completed), ex.Target, ex.Unit)
		if ex.Unit == models.UnitRest {
			target = "rest"
		}
		fmt.Fprintf(&b, "%2d. %s  %s", i+1, LabelStyle.Render(ex.Name), target)
		if len(ex.RequiredEquipment) > 0 {
			b.WriteString(MutedStyle.Render("  [" + strings.Join(ex.RequiredEquipment, ", ") + "]"))
		}
		b.WriteString("\n")
		if ex.Description != "" {
			b.WriteString("    " + MutedStyle.Render(ex.Description) + "\n")
		}
	}

	if day.Feedback != "" {
		b.WriteString("\n" + LabelStyle.Render("Feedback: ") + day.Feedback + "\n")
	}
	return b.String(), nil
}

// RenderHistory renders plan summaries oldest first
func RenderHistory(summaries []models.PlanSummary) string {
	if len(summaries) == 0 {
		return MutedStyle.Render("No plans yet.")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Period", "Difficulty", "Recorded", "Average", "").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i, s := range summaries {
		current := ""
		if s.Current {
			current = "current"
		}
		t.Row(
			strconv.Itoa(i+1),
			s.StartDate+".."+s.EndDate,
			fmt.Sprintf("%.2f", s.Difficulty),
			fmt.Sprintf("%d/30", s.DaysRecorded),
			ProgressBar(s.AverageCompletion),
			current,
		)
	}
	return t.String()
}

// RenderRecordResult describes what a recording changed
func RenderRecordResult(result workout.RecordResult) string {
	var b strings.Builder
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Day %d recorded", result.DayIndex)))
	b.WriteString("  " + ProgressBar(result.Completion) + "\n")

	if len(result.CarryOver) > 0 {
		if result.DayIndex < result.Plan.LastDayIndex() {
			fmt.Fprintf(&b, "%s\n", WarningStyle.Render(fmt.Sprintf("%d exercise(s) carried over to day %d:", len(result.CarryOver), result.DayIndex+1)))
			for _, ex := range result.CarryOver {
				fmt.Fprintf(&b, "  - %s %d %s\n", ex.Name, ex.Target, ex.Unit)
			}
		}
	}

	if result.NextPlan != nil {
		fmt.Fprintf(&b, "\n%s\n", TitleStyle.Render("Cycle complete."))
		fmt.Fprintf(&b, "Average completion %s, next plan %s..%s at difficulty %.2f\n",
			ProgressBar(cycle.AverageCompletion(result.Plan)),
			result.NextPlan.StartDate, result.NextPlan.EndDate, result.NextPlan.Difficulty)
	}
	return b.String()
}

// RenderUser renders a user's identity and preferences
func RenderUser(user models.User) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(user.Name) + MutedStyle.Render("  "+user.ID) + "\n")
	fmt.Fprintf(&b, "%s %.2f\n", LabelStyle.Render("Difficulty:"), user.Preferences.Difficulty)

	equipment := user.Preferences.AvailableEquipment()
	if len(equipment) == 0 {
		fmt.Fprintf(&b, "%s none\n", LabelStyle.Render("Equipment:"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Equipment:"), strings.Join(equipment, ", "))
	}

	tz := user.Preferences.Timezone
	if tz == "" {
		tz = "Local"
	}
	fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Timezone:"), tz)
	fmt.Fprintf(&b, "%s %d\n", LabelStyle.Render("Plans:"), len(user.Plans))
	return b.String()
}
