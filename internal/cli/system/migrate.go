package system

import (
	"fmt"

	"github.com/julianstephens/cyclefit/internal/cli"
)

type migrator interface {
	Migrate() (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		fmt.Fprintf(ctx.Out, "The %s store has no schema to migrate.\n", ctx.Kind)
		return nil
	}

	count, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(ctx.Out, "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(ctx.Out, "Successfully applied %d migration(s).\n", count)
	}
	return nil
}
