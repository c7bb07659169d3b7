package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/itsmostafa/gojs/internal/engine/backends"
	"github.com/spf13/cobra"
)

var astExpr string

var astCmd = &cobra.Command{
	Use:   "ast [FILE]",
	Short: "Print the syntax tree of a script",
	Long: `Parse a file, or the expression given with --eval, using the selected
backend's parser and print the resulting syntax tree as indented JSON.
Nothing is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		var name, src string
		switch {
		case cmd.Flags().Changed("eval") && len(args) > 0:
			return errors.New("--eval cannot be combined with a file argument")
		case cmd.Flags().Changed("eval"):
			name, src = "<eval>", astExpr
		case len(args) == 1:
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			name, src = args[0], string(data)
		default:
			return errors.New("a file or --eval expression is required")
		}

		kind, err := backends.Parse(cfg.Backend)
		if err != nil {
			return err
		}
		backend, err := backends.New(kind)
		if err != nil {
			return err
		}

		tree, err := backend.ParseTree(name, src)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		data, err := json.MarshalIndentWithOption(tree, "", "  ", json.DisableHTMLEscape())
		if err != nil {
			return fmt.Errorf("failed to encode syntax tree: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	astCmd.Flags().StringVarP(&astExpr, "eval", "e", "", "Parse an expression instead of a file")
	rootCmd.AddCommand(astCmd)
}
