package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level ccflags configuration.
type Config struct {
	// DatabaseDir is the directory holding compile_commands.json. Empty
	// means discover it by walking up from the file being looked up.
	DatabaseDir   string   `mapstructure:"database_dir"`
	SearchDirs    []string `mapstructure:"search_dirs"`
	IndexPath     string   `mapstructure:"index_path"`
	UseIndex      bool     `mapstructure:"use_index"`
	ExtraFlags    []string `mapstructure:"extra_flags"`
	FallbackFlags []string `mapstructure:"fallback_flags"`
	Parallelism   int      `mapstructure:"parallelism"`
	Output        Output   `mapstructure:"output"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database_dir", "")
	v.SetDefault("search_dirs", DefaultSearchDirs)
	v.SetDefault("index_path", DefaultIndexPath)
	v.SetDefault("use_index", false)
	v.SetDefault("extra_flags", []string{})
	v.SetDefault("fallback_flags", []string{})
	v.SetDefault("parallelism", DefaultParallelism)
	v.SetDefault("output.color", DefaultOutput.Color)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, filepath.Ext(DefaultConfigFile)))
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}

	cfg.DatabaseDir = expandPath(cfg.DatabaseDir)
	cfg.IndexPath = expandPath(cfg.IndexPath)

	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
