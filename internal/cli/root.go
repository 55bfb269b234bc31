// Package cli implements the brandly command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/brandly/internal/logging"
	"github.com/mesh-intelligence/brandly/internal/paths"
	"github.com/mesh-intelligence/brandly/pkg/catalog"
	"github.com/mesh-intelligence/brandly/pkg/store"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	owner     string
	logLevel  string
	jsonMode  bool
}

// app carries the state of one command invocation.
type app struct {
	flags  rootFlags
	v      *viper.Viper
	logger zerolog.Logger
	stderr io.Writer
}

// NewRootCmd creates the top-level "brandly" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "brandly",
		Short: "Manage brands and products",
		Long: "Brandly keeps an owner's brand and product catalog in a document store\n" +
			"(SQLite with JSONL files by default, or PostgreSQL).",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.stderr = cmd.ErrOrStderr()
			if cmd.Name() == "version" || cmd.Name() == "init" {
				return nil
			}
			return a.loadConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.StringVar(&a.flags.owner, "owner", "", "owner identity that scopes every read and write")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newBrandCmd(a))
	root.AddCommand(newProductCmd(a))
	root.AddCommand(newDashboardCmd(a))

	return root
}

// Execute runs the root command and exits with the code of its error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCode(err))
	}
}

// loadConfig reads config.yaml and builds the logger.
func (a *app) loadConfig() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	if a.flags.owner != "" {
		v.Set(cfgKeyOwner, a.flags.owner)
	}
	if a.flags.logLevel != "" {
		v.Set(cfgKeyLogLevel, a.flags.logLevel)
	}
	a.v = v
	a.logger = logging.New(v.GetString(cfgKeyLogLevel), a.stderr)
	return nil
}

// storeConfig builds the backend configuration from config and flags.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return storeConfigFrom(a.v, dataDir), nil
}

// withCatalog opens the store, builds the owner's catalog, runs fn and
// detaches the store.
func (a *app) withCatalog(ctx context.Context, fn func(c *catalog.Catalog) error) error {
	owner := a.v.GetString(cfgKeyOwner)
	if owner == "" {
		return userError(fmt.Errorf("%w: set --owner, %s_OWNER or owner in config.yaml", types.ErrOwnerRequired, envPrefix))
	}

	cfg, err := a.storeConfig()
	if err != nil {
		return sysError(err)
	}
	s, err := store.Open(ctx, cfg)
	if err != nil {
		return classify(fmt.Errorf("open %s store: %w", cfg.Backend, err))
	}
	defer func() {
		if err := s.Detach(); err != nil {
			a.logger.Error().Err(err).Msg("detach store")
		}
	}()

	c, err := catalog.New(s, owner, a.logger)
	if err != nil {
		return sysError(err)
	}
	return classify(fn(c))
}
