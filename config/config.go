// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// RootSettingsFile is the name of the optional settings file looked up
// in the working directory when none is passed via --settings.
const RootSettingsFile = "tuscan.yaml"

// DefaultBatchSize is the number of candidates a scoring worker
// accumulates before making a model call.
const DefaultBatchSize = 10000

// Config is the root-level settings struct and is a mix of settings
// available in tuscan.yaml, TUSCAN_* environment variables and the
// command line.
type Config struct {
	// the number of scoring workers. Zero means one per CPU
	Threads int `mapstructure:"threads"`

	// candidates accumulated by a worker before each model call
	BatchSize int `mapstructure:"batch-size"`

	// the directory holding the serialized random forest models
	ModelDir string `mapstructure:"models"`

	// sites scoring below this are left out of the report
	MinScore float64 `mapstructure:"min-score"`

	// whether to log debug output
	Verbose bool `mapstructure:"verbose"`
}

// Setup registers defaults and reads the optional settings file and
// environment overrides into Viper. Flags bound by the cmd package take
// precedence over both.
func Setup(settings string) {
	viper.SetDefault("threads", runtime.NumCPU())
	viper.SetDefault("batch-size", DefaultBatchSize)
	viper.SetDefault("models", "models")
	viper.SetDefault("min-score", math.Inf(-1))

	viper.SetEnvPrefix("tuscan")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	explicit := settings != ""
	if !explicit {
		settings = RootSettingsFile
	}
	if _, err := os.Stat(settings); err != nil {
		if explicit {
			log.Fatalf("failed to find settings file %s: %v", settings, err)
		}
		return
	}

	viper.SetConfigFile(settings)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("failed to read settings from %s: %v", settings, err)
	}
}

// New returns a new Config struct populated by Viper settings (either
// from the local tuscan.yaml) and/or command line arguments.
func New() *Config {
	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("failed to decode settings: %v", err)
	}

	// flags bound with zero-value defaults should not zero these out
	if c.Threads < 1 {
		c.Threads = runtime.NumCPU()
	}
	if c.BatchSize < 1 {
		c.BatchSize = DefaultBatchSize
	}
	if c.ModelDir == "" {
		c.ModelDir = "models"
	}
	if !viper.IsSet("min-score") {
		c.MinScore = math.Inf(-1)
	}

	return c
}
