// Package cli wires the cvlens commands: corpus ingestion, interactive
// criteria search, strategy experiments, audits and the HTTP server.
package cli

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/config"
	"github.com/cvlens/cvlens/internal/logger"
	"github.com/cvlens/cvlens/internal/metrics"
)

const app = "cvlens"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "cvlens screens resume PDFs against hiring criteria",
	Long: app + ` ingests resume PDFs into a profile store and ranks the
candidates against a hiring target using embedding similarity. Audit
commands measure how well the automated decisions track human labels.`,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("env", "e", "", "config environment (default is ENV or local)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	if err := viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env")); err != nil {
		log.Fatalf("binding env flag: %v", err)
	}
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
}

// bootstrap loads the config and builds the logger shared by every
// command. Metrics are registered here once so the decorated embedders
// can record without caring which command runs them.
func bootstrap() (config.Config, *zap.Logger) {
	env := config.GetEnv()
	if flagEnv := viper.GetString("env"); flagEnv != "" {
		env = flagEnv
	}

	cfg, err := config.Load(env)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	level := cfg.Logging.Level
	if viper.GetBool("debug") {
		level = "debug"
	}
	lg, err := logger.New(env, level)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}

	metrics.Register()

	return cfg, lg
}
