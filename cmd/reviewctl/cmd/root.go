package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"staff_reviews/internal/adapters/observability"
	redisad "staff_reviews/internal/adapters/redis"
	"staff_reviews/internal/app"
	"staff_reviews/internal/domain"
	"staff_reviews/internal/shared"
	"staff_reviews/internal/storage/sqlstore"
)

// cli carries flags and the services opened for one invocation.
type cli struct {
	cfgFile      string
	driver       string
	dsn          string
	outputFormat string

	out io.Writer

	db        *sql.DB
	cache     *redisad.Cache
	employees *app.EmployeeDirectory
	reviews   *app.ReviewRepository
}

// Execute runs reviewctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Manage employee performance reviews",
		Long:          `reviewctl creates the schema, seeds data and manages reviews and employees directly against the database.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			return c.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&c.driver, "driver", "", "database driver: mysql or sqlite3 (default from DB_DRIVER)")
	root.PersistentFlags().StringVar(&c.dsn, "dsn", "", "database DSN (default from DB_DSN)")
	root.PersistentFlags().StringVarP(&c.outputFormat, "output", "o", "table", "output format: table or json")

	root.AddCommand(
		newSchemaCmd(c),
		newSeedCmd(c),
		newReviewsCmd(c),
		newEmployeesCmd(c),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := shared.LoadFile(c.cfgFile)
	if err != nil {
		return err
	}
	if c.driver != "" {
		cfg.DBDriver = c.driver
	}
	if c.dsn != "" {
		cfg.DBDSN = c.dsn
	}
	if c.outputFormat != "table" && c.outputFormat != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", c.outputFormat)
	}

	// logs go to stderr so stdout stays machine readable
	log.Logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.AppEnv, cfg.LogLevel)

	db, dialect, err := sqlstore.Open(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	c.db = db

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(cmd.Context()); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; employee cache disabled")
			_ = rc.Close()
		} else {
			c.cache = rc
			cache = rc
		}
	}

	store := sqlstore.New(db, dialect)
	c.employees = app.NewEmployeeDirectory(store, cache, cfg.CacheTTL)
	c.reviews = app.NewReviewRepository(store, c.employees, app.NewIdentityMap())
	return nil
}

func (c *cli) close() error {
	if c.reviews != nil {
		c.reviews.Close()
	}
	if c.cache != nil {
		_ = c.cache.Close()
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *cli) isJSON() bool { return c.outputFormat == "json" }

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be a number", s)
	}
	return id, nil
}

// stdinOr opens path, or returns in for "-".
func stdinOr(in io.Reader, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(in), nil
	}
	return os.Open(path)
}
