package users

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cyclefit/internal/catalog"
	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/utils"
)

// PrefsCmd updates a user's preferences. Only flags that are set change;
// existing plans keep their targets.
type PrefsCmd struct {
	User        string   `help:"User name or id (default: the only user)."`
	Difficulty  *float64 `help:"Baseline difficulty multiplier."`
	Equipment   []string `help:"Available equipment tags, or 'all'. Replaces the current set." sep:","`
	NoEquipment bool     `help:"Mark all equipment unavailable."`
	Timezone    *string  `help:"IANA timezone, or empty for the system timezone."`
	Interactive bool     `help:"Edit preferences in an interactive form." short:"i"`
}

func (c *PrefsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ResolveUser(c.User)
	if err != nil {
		return err
	}

	prefs, err := c.apply(user.Preferences.Clone())
	if err != nil {
		return err
	}

	if c.Interactive {
		if prefs, err = editPreferences(prefs); err != nil {
			return err
		}
	}

	updated, err := ctx.Service.UpdatePreferences(user.ID, prefs)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, cli.SuccessStyle.Render("✓ Preferences updated"))
	fmt.Fprint(ctx.Out, cli.RenderUser(updated))
	fmt.Fprintln(ctx.Out, cli.MutedStyle.Render("Changes apply from the next generated plan."))
	return nil
}

func (c *PrefsCmd) apply(prefs models.Preferences) (models.Preferences, error) {
	if c.NoEquipment && len(c.Equipment) > 0 {
		return prefs, errors.New("--equipment and --no-equipment are mutually exclusive")
	}
	if c.Difficulty != nil {
		prefs.Difficulty = *c.Difficulty
	}
	if len(c.Equipment) > 0 || c.NoEquipment {
		equipment, err := cli.ParseEquipment(c.Equipment)
		if err != nil {
			return prefs, err
		}
		prefs.Equipment = equipment
	}
	if c.Timezone != nil {
		prefs.Timezone = strings.TrimSpace(*c.Timezone)
	}
	return prefs, nil
}

func editPreferences(prefs models.Preferences) (models.Preferences, error) {
	difficulty := strconv.FormatFloat(prefs.Difficulty, 'f', -1, 64)
	selected := prefs.AvailableEquipment()
	timezone := prefs.Timezone

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Difficulty").
				Description("Baseline multiplier, 1.0 keeps the catalog targets").
				Value(&difficulty).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return errors.New("enter a positive number")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Available equipment").
				Options(huh.NewOptions(catalog.EquipmentTags()...)...).
				Value(&selected),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name such as Europe/Bucharest, empty for the system timezone").
				Value(&timezone).
				Validate(func(s string) error {
					_, err := utils.LoadLocation(strings.TrimSpace(s))
					return err
				}),
		),
	)
	if err := form.Run(); err != nil {
		return prefs, fmt.Errorf("preferences form: %w", err)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(difficulty), 64)
	if err != nil {
		return prefs, fmt.Errorf("invalid difficulty: %w", err)
	}
	equipment, err := cli.ParseEquipment(selected)
	if err != nil {
		return prefs, err
	}

	prefs.Difficulty = v
	prefs.Equipment = equipment
	prefs.Timezone = strings.TrimSpace(timezone)
	return prefs, nil
}
