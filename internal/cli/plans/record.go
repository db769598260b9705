package plans

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/logger"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/tracker"
)

// RecordCmd records completed amounts for a day, in exercise order.
type RecordCmd struct {
	User        string   `help:"User name or id (default: the only user)."`
	Day         int      `help:"Day index 0-29 (default: today)." default:"-1"`
	Values      []string `arg:"" optional:"" help:"Completed amount per exercise; '-' for none." sep:","`
	Feedback    string   `help:"Free-text feedback for the day." short:"f"`
	Interactive bool     `help:"Prompt for each exercise." short:"i"`
}

func (c *RecordCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}

	if c.Day < 0 && !c.Interactive {
		result, err := ctx.Service.RecordToday(user.ID, parseValues(ctx, c.Values), c.Feedback)
		if err != nil {
			return err
		}
		fmt.Fprint(ctx.Out, cli.RenderRecordResult(result))
		return nil
	}

	plan, today, err := ctx.Service.TodayIndex(user.ID)
	if err != nil {
		return err
	}

	index := c.Day
	if index < 0 {
		if today < 0 {
			return fmt.Errorf("today is outside the current plan (%s..%s), pass --day", plan.StartDate, plan.EndDate)
		}
		index = today
	}

	raw := c.Values
	feedback := c.Feedback
	if c.Interactive {
		if index >= len(plan.Days) {
			return fmt.Errorf("%w: %d", tracker.ErrDayIndexOutOfRange, index)
		}
		if raw, feedback, err = promptDay(plan.Days[index], feedback); err != nil {
			return err
		}
	}

	result, err := ctx.Service.RecordDay(user.ID, index, parseValues(ctx, raw), feedback)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out, cli.RenderRecordResult(result))
	return nil
}

func parseValues(ctx *cli.Context, raw []string) []float64 {
	values, warnings := cli.ParseValues(raw)
	for _, w := range warnings {
		logger.Warn("Completion value coerced", "detail", w)
		fmt.Fprintln(ctx.Out, cli.WarningStyle.Render("⚠ "+w))
	}
	return values
}

func promptDay(day models.Day, feedback string) ([]string, string, error) {
	raw := make([]string, len(day.Exercises))
	var fields []huh.Field
	for i, ex := range day.Exercises {
		title := fmt.Sprintf("%s (%d %s)", ex.Name, ex.Target, ex.Unit)
		if ex.Unit == models.UnitRest {
			title = ex.Name + " (rest, 1 = done)"
		}
		fields = append(fields, huh.NewInput().Title(title).Placeholder("-").Value(&raw[i]))
	}
	fields = append(fields, huh.NewText().Title("Feedback").Value(&feedback))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, "", fmt.Errorf("record form: %w", err)
	}
	return raw, strings.TrimSpace(feedback), nil
}
