package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/brandly/internal/paths"
	"github.com/mesh-intelligence/brandly/pkg/store"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize brandly configuration and storage",
		Long: "Create the configuration directory and config.yaml if missing, then\n" +
			"initialize the storage backend. Running init again is safe.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	// A data_dir already in config.yaml wins over the CWD default.
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, readConfigFile(configDir).DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}
	created, err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), configFile{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		Owner:   a.flags.owner,
	})
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	if err := a.loadConfig(); err != nil {
		return err
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return sysError(err)
	}
	s, err := store.Open(cmd.Context(), cfg)
	if err != nil {
		return classify(fmt.Errorf("initialize storage: %w", err))
	}
	if err := s.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	a.logger.Info().Str("config_dir", configDir).Str("backend", cfg.Backend).Bool("config_created", created).Msg("initialized")
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, map[string]string{
			"configDir": configDir,
			"dataDir":   cfg.DataDir,
			"backend":   cfg.Backend,
		})
	}
	fmt.Fprintln(out, "Brandly initialized successfully")
	fmt.Fprintf(out, "config: %s\n", filepath.Join(configDir, configFileExt))
	if cfg.Backend == types.BackendSQLite {
		fmt.Fprintf(out, "data:   %s\n", cfg.DataDir)
	}
	return nil
}
