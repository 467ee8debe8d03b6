package main

import (
	goflag "flag"
	"fmt"
	"os"
	"strings"

	"github.com/borzacchiello/stevia/simplify"
	"github.com/borzacchiello/stevia/solver"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "stevia",
	Short: "stevia, bitvector formula simplifier and bit-blaster",
	Long:  "",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("backend", "gini", "solver backend ("+strings.Join(solver.Backends(), ", ")+")")
	pf.StringSlice("passes", simplify.DefaultPasses, "simplification passes, in order")
	pf.Int("max-passes", simplify.DefaultMaxPasses, "maximum number of simplification passes")
	pf.Bool("no-color", false, "disable colored output")
	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("STEVIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func initConfig() error {
	if file := viper.GetString("config"); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrap(err, "reading config")
		}
	}
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return errors.Wrap(err, "log-level")
	}
	log.SetLevel(level)
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	return nil
}

func solverConfig() solver.Config {
	cfg := solver.DefaultConfig()
	cfg.Backend = viper.GetString("backend")
	cfg.Pipeline.Passes = viper.GetStringSlice("passes")
	cfg.Pipeline.MaxPasses = viper.GetInt("max-passes")
	return cfg
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(benchCommand)
	rootCmd.AddCommand(dimacsCommand)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
