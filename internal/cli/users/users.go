package users

import (
	"fmt"

	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/models"
)

type UserAddCmd struct {
	Name       string   `arg:"" help:"Unique user name."`
	Difficulty float64  `help:"Baseline difficulty multiplier." default:"1.0"`
	Equipment  []string `help:"Available equipment tags, or 'all'." sep:","`
	Timezone   string   `help:"IANA timezone used to decide 'today' (default: system)."`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	equipment, err := cli.ParseEquipment(c.Equipment)
	if err != nil {
		return err
	}

	user, err := ctx.Service.CreateUser(c.Name, models.Preferences{
		Difficulty: c.Difficulty,
		Equipment:  equipment,
		Timezone:   c.Timezone,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, cli.SuccessStyle.Render("✓ User created"))
	fmt.Fprint(ctx.Out, cli.RenderUser(user))
	fmt.Fprintf(ctx.Out, "\nStart a plan with: cyclefit plan start --user %s\n", user.Name)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	users, err := ctx.Service.ListUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(ctx.Out, "No users found. Add one with: cyclefit user add <name>")
		return nil
	}

	for _, u := range users {
		fmt.Fprintf(ctx.Out, "%s  %s  difficulty %.2f  %d plan(s)\n",
			cli.LabelStyle.Render(u.Name), cli.MutedStyle.Render(u.ID), u.Preferences.Difficulty, len(u.Plans))
	}
	return nil
}

type UserShowCmd struct {
	User string `arg:"" optional:"" help:"User name or id (default: the only user)."`
}

func (c *UserShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out, cli.RenderUser(user))
	return nil
}
