package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-2048/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration",
	Long: `Print the configuration t2048 runs with, after the config file and
global flags are applied.

With --defaults the built-in default file is printed instead. Save it as
~/.t2048/config.yaml to start customizing key bindings or addresses.

Examples:
  t2048 config
  t2048 config --defaults > ~/.t2048/config.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in default config file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDefaults {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg := loadConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(string(data))
}
