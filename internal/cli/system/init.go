package system

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cyclefit/internal/cli"
	"github.com/julianstephens/cyclefit/internal/keyring"
	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/storage/postgres"
)

type InitCmd struct {
	Force           bool   `help:"Force reset by deleting an existing SQLite or JSON store before initialization."`
	Source          string `help:"Store path or connection string to copy users from."`
	StoreConnection bool   `help:"Prompt for a PostgreSQL connection string and save it in the OS keyring."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Initialized cyclefit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(ctx.Out, "Copying users from: %s\n", c.Source)
		n, err := copyUsers(ctx.Store, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintf(ctx.Out, "  Copied %d user(s)\n", n)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Kind == cli.StorePostgres {
		return errors.New("--force is not supported for PostgreSQL; drop the schema manually")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		fmt.Fprintf(ctx.Out, "Deleted existing store at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

// copyUsers loads every user from the store at source and adds it to dst.
func copyUsers(dst storage.Provider, source string) (int, error) {
	src, _, err := cli.OpenStore(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	users, err := src.GetAllUsers()
	if err != nil {
		return 0, fmt.Errorf("failed to read users from source: %w", err)
	}
	for _, user := range users {
		if err := dst.AddUser(user); err != nil {
			return 0, fmt.Errorf("failed to add user %s: %w", user.Name, err)
		}
	}
	return len(users), nil
}

// StoreConnection prompts for a PostgreSQL connection string and saves it in
// the OS keyring. It runs before the store is opened so that
// "--config postgres" can resolve the saved value.
func StoreConnection(out io.Writer) error {
	var connStr string
	input := huh.NewInput().
		Title("PostgreSQL connection string").
		Description("Stored in the OS keyring, never written to disk").
		EchoMode(huh.EchoModePassword).
		Value(&connStr).
		Validate(func(s string) error {
			if !cli.IsPostgresConnString(strings.TrimSpace(s)) {
				return errors.New("must be a postgres:// URL or a key=value DSN with host=")
			}
			return nil
		})
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return fmt.Errorf("connection prompt: %w", err)
	}

	connStr = strings.TrimSpace(connStr)
	if err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is an acceptable home for a password
		fmt.Fprintln(out, cli.WarningStyle.Render("⚠ Connection string contains a password; it is kept only in the OS keyring."))
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return err
	}
	fmt.Fprintln(out, cli.SuccessStyle.Render("✓ Connection string stored in OS keyring"))
	fmt.Fprintln(out, "  Use --config postgres to connect with it.")
	return nil
}
