package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itsmostafa/gojs/internal/history"
	"github.com/spf13/cobra"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the REPL history",
	Long:  `List the fragments recorded by interactive sessions, oldest first, or remove them with --clear.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.HistoryFile == "" {
			return errors.New("history is disabled")
		}

		hist, err := history.Load(cfg.HistoryFile, cfg.HistorySize)
		if err != nil {
			return err
		}

		if historyClear {
			if err := hist.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", cfg.HistoryFile)
			return nil
		}

		out := cmd.OutOrStdout()
		for i, entry := range hist.Entries() {
			lines := strings.Split(entry, "\n")
			fmt.Fprintf(out, "%5d  %s\n", i+1, lines[0])
			for _, line := range lines[1:] {
				fmt.Fprintf(out, "       %s\n", line)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Remove all history entries")
	rootCmd.AddCommand(historyCmd)
}
