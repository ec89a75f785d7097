// Package cmd implements the subcommands of the tsubame command line tool.
package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// envDefaults maps flag names to the environment variables that provide
// their defaults. A flag set on the command line always wins over the
// environment.
var envDefaults = map[string]string{
	"ranks":        "TSUBAME_RANKS",
	"monitor-port": "TSUBAME_MONITOR_PORT",
	"trace":        "TSUBAME_TRACE",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tsubame",
	Short: "Tsubame development tool",
	Long: `Tsubame is the tool that runs messaging demos and benchmarks on an
in-process fabric. Each subcommand launches one goroutine per rank and
exchanges typed messages through the tsubame messaging layer.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Missing .env files are fine. Variables already set in the
		// environment take precedence over the file.
		_ = godotenv.Load()
		applyEnvDefaults(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func applyEnvDefaults(cmd *cobra.Command) {
	flags := cmd.Flags()

	for name, envName := range envDefaults {
		flag := flags.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}

		value, found := os.LookupEnv(envName)
		if !found {
			continue
		}

		err := flags.Set(name, value)
		if err != nil {
			log.Fatalf("invalid value %q for %s: %v", value, envName, err)
		}
	}
}
