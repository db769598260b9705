package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/cyclefit/internal/backup"
	"github.com/julianstephens/cyclefit/internal/catalog"
	"github.com/julianstephens/cyclefit/internal/keyring"
	"github.com/julianstephens/cyclefit/internal/logger"
	"github.com/julianstephens/cyclefit/internal/models"
	"github.com/julianstephens/cyclefit/internal/storage"
	"github.com/julianstephens/cyclefit/internal/storage/postgres"
	"github.com/julianstephens/cyclefit/internal/storage/sqlite"
	"github.com/julianstephens/cyclefit/internal/utils"
	"github.com/julianstephens/cyclefit/internal/workout"
)

// StoreKind names the storage backend selected by --config
type StoreKind string

const (
	StoreSQLite   StoreKind = "sqlite"
	StorePostgres StoreKind = "postgres"
	StoreJSON     StoreKind = "json"
)

// ErrNoUsers is returned when a command needs a user and none exist
var ErrNoUsers = errors.New("no users found")

// ErrAmbiguousUser is returned when --user is omitted and several users exist
var ErrAmbiguousUser = errors.New("more than one user exists")

type Context struct {
	Store    storage.Provider
	Kind     StoreKind
	Service  *workout.Service
	Timezone string
	Out      io.Writer
	In       io.Reader
}

// NewContext wires the service for store. A non-empty timezone pins "today"
// for every user; otherwise each user's preference applies.
func NewContext(store storage.Provider, kind StoreKind, timezone string) (*Context, error) {
	ctx := &Context{
		Store:    store,
		Kind:     kind,
		Timezone: timezone,
		Out:      os.Stdout,
		In:       os.Stdin,
	}

	clock := workout.SystemClock{}
	if timezone != "" {
		loc, err := utils.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
		clock.Location = loc
	}

	var opts []workout.Option
	if kind == StoreSQLite {
		opts = append(opts, workout.WithBeforeWrite(func() error {
			ctx.PerformAutomaticBackup()
			return nil
		}))
	}
	ctx.Service = workout.NewService(store, clock, opts...)
	return ctx, nil
}

// OpenStore picks a backend from the --config value: a PostgreSQL connection
// string, "postgres" to read one from the environment or keyring, a .json
// file, or an SQLite database path.
func OpenStore(config string) (storage.Provider, StoreKind, error) {
	config = strings.TrimSpace(config)

	switch {
	case config == "postgres" || config == "postgresql":
		connStr, err := keyring.ResolveConnectionString()
		if err != nil {
			return nil, "", err
		}
		return postgres.New(connStr), StorePostgres, nil
	case IsPostgresConnString(config):
		if err := postgres.ValidateConnString(config); err != nil {
			return nil, "", err
		}
		return postgres.New(config), StorePostgres, nil
	}

	path, err := utils.ExpandHome(config)
	if err != nil {
		return nil, "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), StoreJSON, nil
	}
	return sqlite.NewStore(path), StoreSQLite, nil
}

// IsPostgresConnString reports whether s looks like a PostgreSQL URL or DSN
func IsPostgresConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") ||
		strings.HasPrefix(s, "postgresql://") ||
		strings.Contains(s, "host=")
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Kind != StoreSQLite {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	path, err := mgr.CreateBackup()
	if err != nil {
		// don't interrupt the recording
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	logger.Debug("Automatic backup created", "path", path)
}

// ResolveUser finds the user named by idOrName. An empty value selects the
// only user when exactly one exists.
func (c *Context) ResolveUser(idOrName string) (models.User, error) {
	if idOrName != "" {
		return c.Service.GetUser(idOrName)
	}

	users, err := c.Service.ListUsers()
	if err != nil {
		return models.User{}, err
	}
	switch len(users) {
	case 0:
		return models.User{}, ErrNoUsers
	case 1:
		return users[0], nil
	default:
		return models.User{}, fmt.Errorf("%w, pass --user", ErrAmbiguousUser)
	}
}

// ParseValues converts completed amounts from the command line. Blank, "-"
// and unparsable entries become 0 and are reported back as warnings.
func ParseValues(raw []string) ([]float64, []string) {
	values := make([]float64, len(raw))
	var warnings []string
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || s == "-" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("value %d (%q) is not a number, recorded as 0", i+1, s))
			continue
		}
		values[i] = v
	}
	return values, warnings
}

// ParseEquipment builds an equipment map from tags. Every catalog tag is
// present in the result; "all" selects all of them.
func ParseEquipment(tags []string) (map[string]bool, error) {
	equipment := make(map[string]bool)
	for _, tag := range catalog.EquipmentTags() {
		equipment[tag] = false
	}

	var unknown []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		switch {
		case tag == "":
		case tag == "all":
			for k := range equipment {
				equipment[k] = true
			}
		default:
			if _, ok := equipment[tag]; !ok {
				unknown = append(unknown, tag)
				continue
			}
			equipment[tag] = true
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown equipment %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(catalog.EquipmentTags(), ", "))
	}
	return equipment, nil
}
