// Package cmd is for command line interactions with the tuscan application
package cmd

import (
	"log"

	"github.com/aydun1/TUSCAN/config"
	"github.com/aydun1/TUSCAN/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "tuscan",
	Short: `Predict CRISPR/Cas9 activity at target sites.
Scan a genome for candidate sites and score each with a trained random forest`,
	Version: "1.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zapcore.InfoLevel
		if viper.GetBool("verbose") {
			level = zapcore.DebugLevel
		}
		if err := logger.Init(level); err != nil {
			log.Fatalf("failed to start logger: %v", err)
		}

		// optional .env for TUSCAN_* settings like TUSCAN_MODELS
		if err := godotenv.Load(); err == nil {
			logger.Debug("loaded settings from .env")
		}

		settings, _ := cmd.Flags().GetString("settings")
		config.Setup(settings)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	defer logger.Sync()

	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// set flags
func init() {
	RootCmd.PersistentFlags().StringP("settings", "s", "", "settings file overriding the defaults <YAML>")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
	RootCmd.PersistentFlags().String("models", "", "directory holding the trained models")
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("models", RootCmd.PersistentFlags().Lookup("models"))
}
