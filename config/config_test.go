// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestNew(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	Setup("")

	c := New()
	if c.Threads < 1 {
		t.Errorf("Config.Threads = %d, want >= 1", c.Threads)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("Config.BatchSize = %d, want %d", c.BatchSize, DefaultBatchSize)
	}
	if c.ModelDir != "models" {
		t.Errorf("Config.ModelDir = %q, want %q", c.ModelDir, "models")
	}
	if !math.IsInf(c.MinScore, -1) {
		t.Errorf("Config.MinScore = %f, want -Inf", c.MinScore)
	}
	if c.Verbose {
		t.Error("Config.Verbose = true, want false")
	}
}

func TestNewSettingsFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	settings := filepath.Join(t.TempDir(), "tuscan.yaml")
	contents := "threads: 3\nbatch-size: 500\nmodels: /opt/tuscan/models\nmin-score: 0.25\n"
	if err := os.WriteFile(settings, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	Setup(settings)

	c := New()
	if c.Threads != 3 {
		t.Errorf("Config.Threads = %d, want 3", c.Threads)
	}
	if c.BatchSize != 500 {
		t.Errorf("Config.BatchSize = %d, want 500", c.BatchSize)
	}
	if c.ModelDir != "/opt/tuscan/models" {
		t.Errorf("Config.ModelDir = %q, want /opt/tuscan/models", c.ModelDir)
	}
	if c.MinScore != 0.25 {
		t.Errorf("Config.MinScore = %f, want 0.25", c.MinScore)
	}
}

func TestNewZeroValueGuards(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	// nothing registered in viper at all: New still returns usable settings
	c := New()
	if c.Threads < 1 {
		t.Errorf("Config.Threads = %d, want >= 1", c.Threads)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("Config.BatchSize = %d, want %d", c.BatchSize, DefaultBatchSize)
	}
	if !math.IsInf(c.MinScore, -1) {
		t.Errorf("Config.MinScore = %f, want -Inf", c.MinScore)
	}
}
