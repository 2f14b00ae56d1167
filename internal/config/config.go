// Package config loads settings for the snapshot tool from an optional
// config file and CFRARENA_* environment variables.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "CFRARENA"

// Snapshot storage backends.
const (
	BackendFile    = "file"
	BackendLevelDB = "leveldb"
	BackendRocksDB = "rocksdb"
)

type Config struct {
	// Backend is where snapshots are read from and written to.
	Backend string `mapstructure:"BACKEND"`
	// DBPath is the database directory for the leveldb and rocksdb backends.
	DBPath string `mapstructure:"DB_PATH"`
	// Inputs are snapshot paths (file backend) or checkpoint keys to merge.
	Inputs []string `mapstructure:"INPUTS"`
	// Output, if set, is where the merged store is written.
	Output string `mapstructure:"OUTPUT"`
	// DotOutput, if set, is a file to write tree DotTree to in DOT format.
	DotOutput string `mapstructure:"DOT_OUTPUT"`
	DotTree   int    `mapstructure:"DOT_TREE"`
	// SeedKuhn seeds the store with a Kuhn poker tree for each player.
	SeedKuhn bool `mapstructure:"SEED_KUHN"`
}

func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("BACKEND", BackendFile)
	v.SetDefault("DB_PATH", "")
	v.SetDefault("INPUTS", []string{})
	v.SetDefault("OUTPUT", "")
	v.SetDefault("DOT_OUTPUT", "")
	v.SetDefault("DOT_TREE", 0)
	v.SetDefault("SEED_KUHN", false)

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", cfgPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	return &cfg, nil
}

// Validate checks that the configured backend is usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
	case BackendLevelDB, BackendRocksDB:
		if c.DBPath == "" {
			return errors.Errorf("backend %s requires a db path", c.Backend)
		}
	default:
		return errors.Errorf("unknown backend %q", c.Backend)
	}

	if c.DotTree < 0 {
		return errors.Errorf("invalid dot tree %d", c.DotTree)
	}

	return nil
}
