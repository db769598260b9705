package plans

import (
	"errors"
	"fmt"

	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/workout"
)

type PlanStartCmd struct {
	User  string `help:"User name or id (default: the only user)."`
	Start string `help:"Start date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *PlanStartCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}

	plan, err := ctx.Service.StartPlan(user.ID, c.Start)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, cli.SuccessStyle.Render("✓ Plan generated"))
	fmt.Fprintln(ctx.Out, cli.RenderPlanHeader(plan))
	return nil
}

type PlanShowCmd struct {
	User string `help:"User name or id (default: the only user)."`
}

func (c *PlanShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}

	plan, today, err := ctx.Service.TodayIndex(user.ID)
	if errors.Is(err, workout.ErrNoCurrentPlan) {
		fmt.Fprintln(ctx.Out, "No current plan. Start one with: cyclefit plan start")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, cli.RenderPlan(plan, today))
	return nil
}

type DayCmd struct {
	User string `help:"User name or id (default: the only user)."`
	Day  int    `arg:"" optional:"" help:"Day index 0-29 (default: today)." default:"-1"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}

	plan, today, err := ctx.Service.TodayIndex(user.ID)
	if err != nil {
		return err
	}

	index := c.Day
	if index < 0 {
		if today < 0 {
			return fmt.Errorf("today is outside the current plan (%s..%s), pass a day index", plan.StartDate, plan.EndDate)
		}
		index = today
	}

	out, err := cli.RenderDay(plan, index)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out, out)
	return nil
}

type HistoryCmd struct {
	User string `help:"User name or id (default: the only user)."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}

	summaries, err := ctx.Service.History(user.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, cli.RenderHistory(summaries))
	return nil
}
