// Package bootstrap loads configuration and opens the shared runtime used by
// the CLI commands.
package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/infrastructure/config"
	"github.com/orris-inc/ticketflow/internal/infrastructure/database"
	httpapi "github.com/orris-inc/ticketflow/internal/interfaces/http"
	"github.com/orris-inc/ticketflow/internal/shared/biztime"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// Flags are the persistent flags every command shares.
type Flags struct {
	Env        string
	ConfigPath string
	Verbose    bool
}

func (f *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.Env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "Log source locations for every level")
}

// Runtime is a loaded config, an initialized logger and optionally an open
// database with the wired container.
type Runtime struct {
	Cfg       *config.Config
	Log       logger.Interface
	DB        *gorm.DB
	Container *httpapi.Container
}

// Load reads the configuration and initializes logging and the business timezone.
// A .env file in the working directory, when present, seeds TICKETFLOW_*
// variables that are not already set.
func Load(f *Flags) (*Runtime, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := config.Load(f.Env, f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, f.Verbose); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return &Runtime{Cfg: cfg, Log: logger.NewLogger()}, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// OpenDatabase connects to the configured database.
func (r *Runtime) OpenDatabase() error {
	db, err := database.Open(&r.Cfg.Database)
	if err != nil {
		return err
	}
	r.DB = db
	return nil
}

// OpenContainer opens the database when needed and wires the container.
func (r *Runtime) OpenContainer() error {
	if r.DB == nil {
		if err := r.OpenDatabase(); err != nil {
			return err
		}
	}
	c, err := httpapi.NewContainer(r.DB, r.Cfg, r.Log)
	if err != nil {
		return err
	}
	r.Container = c
	return nil
}

// Close releases the container and the database.
func (r *Runtime) Close() {
	if r.Container != nil {
		r.Container.Shutdown()
	}
	if r.DB != nil {
		if err := database.Close(r.DB); err != nil {
			r.Log.Warnw("failed to close database", "error", err)
		}
	}
}

// Open is Load followed by OpenContainer.
func Open(f *Flags) (*Runtime, error) {
	rt, err := Load(f)
	if err != nil {
		return nil, err
	}
	if err := rt.OpenContainer(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
