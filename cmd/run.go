package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Run JavaScript files",
	Long: `Run one or more JavaScript files in order against a single session, so
later files see bindings made by earlier ones. The first failure stops the
run and exits with status 1.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		sources, err := readSources(args)
		if err != nil {
			return err
		}
		return runSources(cmd, cfg, sources)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
