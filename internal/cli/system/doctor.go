package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/cyclefit/internal/backup"
	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/utils"
	"github.com/julianstephens/cyclefit/internal/validation"
)

// ErrChecksFailed is returned when at least one doctor check fails
var ErrChecksFailed = errors.New("one or more checks failed")

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct {
	Fix bool `help:"Repair fixable data problems (negative completions, stale cached ratios)."`
}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusFail
	statusWarn
	statusSkip
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	hasError := false
	report := func(name string, status checkStatus, detail string) {
		switch status {
		case statusOK:
			fmt.Fprintln(ctx.Out, cli.SuccessStyle.Render("✓ "+name+": OK"))
		case statusFail:
			hasError = true
			fmt.Fprintln(ctx.Out, cli.WarningStyle.Render("❌ "+name+": FAIL"))
		case statusWarn:
			fmt.Fprintln(ctx.Out, cli.WarningStyle.Render("⚠ "+name+": WARNING"))
		case statusSkip:
			fmt.Fprintln(ctx.Out, cli.MutedStyle.Render("⊘ "+name+": SKIPPED"))
		}
		if detail != "" {
			fmt.Fprintf(ctx.Out, "   %s\n", detail)
		}
	}

	reachable := true
	if err := ctx.Store.Load(); err != nil {
		reachable = false
		report("Storage reachable", statusFail, err.Error())
	} else {
		report("Storage reachable", statusOK, "")
	}

	if !reachable {
		report("Schema version", statusSkip, "storage not reachable")
	} else {
		status, detail := checkSchemaVersion(ctx)
		report("Schema version", status, detail)
	}

	status, detail := checkBackupsPresent(ctx)
	report("Backups present", status, detail)

	if !reachable {
		report("Data validation", statusSkip, "storage not reachable")
	} else {
		status, detail := cmd.checkData(ctx)
		report("Data validation", status, detail)
	}

	status, detail = checkClockTimezone(ctx.Timezone)
	report("Clock/timezone", status, detail)

	fmt.Fprintln(ctx.Out)
	if hasError {
		return ErrChecksFailed
	}
	fmt.Fprintln(ctx.Out, "All checks passed.")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) (checkStatus, string) {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return statusSkip, fmt.Sprintf("%s store has no schema", ctx.Kind)
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return statusFail, err.Error()
	}
	switch {
	case current < latest:
		return statusFail, fmt.Sprintf("schema version %d, latest %d: run 'cyclefit migrate'", current, latest)
	case current > latest:
		return statusFail, fmt.Sprintf("schema version %d is newer than this binary supports (%d)", current, latest)
	}
	return statusOK, ""
}

func checkBackupsPresent(ctx *cli.Context) (checkStatus, string) {
	if ctx.Kind != cli.StoreSQLite {
		return statusSkip, "backups apply to SQLite storage only"
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return statusWarn, err.Error()
	}
	if len(backups) == 0 {
		return statusWarn, "no backups yet; run 'cyclefit backup create'"
	}
	return statusOK, ""
}

func (cmd *DoctorCmd) checkData(ctx *cli.Context) (checkStatus, string) {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return statusFail, err.Error()
	}

	v := validation.New()
	if cmd.Fix {
		for i := range users {
			actions := v.Fix(&users[i])
			if len(actions) == 0 {
				continue
			}
			if err := ctx.Store.SaveUser(users[i]); err != nil {
				return statusFail, fmt.Sprintf("failed to save fixes for %s: %v", users[i].Name, err)
			}
			for _, a := range actions {
				fmt.Fprintf(ctx.Out, "   fixed: %s\n", a.Action)
			}
		}
	}

	result := v.ValidateUsers(users)
	if result.HasConflicts() {
		return statusFail, result.FormatReport()
	}
	return statusOK, ""
}

func checkClockTimezone(timezone string) (checkStatus, string) {
	if _, err := utils.LoadLocation(timezone); err != nil {
		return statusFail, fmt.Sprintf("invalid timezone %q: %v", timezone, err)
	}
	if now := time.Now(); now.Year() < 2020 {
		return statusFail, fmt.Sprintf("system clock reports %s", now.Format(time.RFC3339))
	}
	return statusOK, ""
}
