package plans

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/export"
)

type ExportCmd struct {
	User   string `help:"User name or id (default: the only user)."`
	Output string `help:"Destination .xlsx file (default: plan-<start>.xlsx)." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}

	plan, err := ctx.Service.CurrentPlan(user.ID)
	if err != nil {
		return err
	}

	path := c.Output
	if path == "" {
		path = fmt.Sprintf("plan-%s.xlsx", plan.StartDate)
	}
	if filepath.Ext(path) != ".xlsx" {
		path += ".xlsx"
	}

	if err := export.WritePlan(path, plan); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, cli.SuccessStyle.Render("✓ Plan exported to "+path))
	return nil
}
