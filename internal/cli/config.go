package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "BRANDLY"
)

// Config keys.
const (
	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyDSN           = "dsn"
	cfgKeyOwner         = "owner"
	cfgKeyLogLevel      = "log_level"
	cfgKeySyncStrategy  = "sync_strategy"
	cfgKeyBatchSize     = "batch_size"
	cfgKeyBatchInterval = "batch_interval"
)

// envKeys are read from BRANDLY_<KEY>. data_dir is resolved by
// paths.ResolveDataDir so the config file keeps precedence over the env.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyDSN,
	cfgKeyOwner,
	cfgKeyLogLevel,
	cfgKeySyncStrategy,
	cfgKeyBatchSize,
	cfgKeyBatchInterval,
}

// configFile is the structure written to config.yaml.
type configFile struct {
	Backend      string `yaml:"backend"`
	DataDir      string `yaml:"data_dir,omitempty"`
	DSN          string `yaml:"dsn,omitempty"`
	Owner        string `yaml:"owner,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
	SyncStrategy string `yaml:"sync_strategy,omitempty"`
}

// loadConfig reads config.yaml from configDir with viper. A missing file is
// not an error; defaults and environment variables still apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storeConfigFrom maps config keys onto a backend Config.
func storeConfigFrom(v *viper.Viper, dataDir string) types.Config {
	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
		DSN:     v.GetString(cfgKeyDSN),
	}
	if cfg.Backend == types.BackendSQLite {
		cfg.SQLiteConfig = &types.SQLiteConfig{
			SyncStrategy:  v.GetString(cfgKeySyncStrategy),
			BatchSize:     v.GetInt(cfgKeyBatchSize),
			BatchInterval: v.GetInt(cfgKeyBatchInterval),
		}
	}
	return cfg
}

// writeConfigIfMissing creates config.yaml from cfg unless it exists.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# Brandly configuration. BRANDLY_<KEY> environment variables override these values.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// readConfigFile reads config.yaml directly. A missing or unreadable file
// yields the zero value.
func readConfigFile(configDir string) configFile {
	var cfg configFile
	data, err := os.ReadFile(filepath.Join(configDir, configFileExt))
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(data, &cfg)
	return cfg
}
