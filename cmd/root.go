package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/itsmostafa/gojs/internal/config"
	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/itsmostafa/gojs/internal/engine/backends"
	"github.com/itsmostafa/gojs/internal/history"
	"github.com/itsmostafa/gojs/internal/logging"
	"github.com/itsmostafa/gojs/internal/render"
	"github.com/itsmostafa/gojs/internal/repl"
	"github.com/itsmostafa/gojs/internal/version"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var log = logging.Get("cmd")

var backendName string
var configPath string
var verbosity int
var logFile string
var historyPath string
var noHistory bool
var debugOutput bool
var evalExpr string

var rootCmd = &cobra.Command{
	Use:   "gojs [files...]",
	Short: "JavaScript shell with interchangeable engines",
	Long: `gojs runs JavaScript interactively or from files.

With no arguments it starts a read-eval-print loop that keeps bindings
between inputs and waits for more lines while a construct is left open.
Given files or --eval, it runs them in order and exits.

Two backends are available: a tree-walking interpreter (otto, ES5) and a
bytecode virtual machine (goja, ES2020+).`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("eval") {
			if len(args) > 0 {
				return errors.New("--eval cannot be combined with file arguments")
			}
			return runSources(cmd, cfg, []repl.Source{{Name: "<eval>", Text: evalExpr}})
		}
		if len(args) > 0 {
			sources, err := readSources(args)
			if err != nil {
				return err
			}
			return runSources(cmd, cfg, sources)
		}
		return runREPL(cmd, cfg)
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("gojs %s\n", version.String()))

	// Backend flag with env var fallback
	defaultBackend := backends.Default.String()
	if envBackend := os.Getenv(config.EnvBackend); envBackend != "" {
		defaultBackend = envBackend
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&backendName, "backend", "b", defaultBackend, "Execution backend (interpreter, vm)")
	flags.StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.StringVar(&historyPath, "history", config.DefaultHistoryPath(), "History file")
	flags.BoolVar(&noHistory, "no-history", false, "Do not read or write the history file")
	flags.BoolVar(&debugOutput, "debug", false, "Render values as JSON documents")

	rootCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "Evaluate an expression and exit")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, repl.ErrReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// resolveConfig layers defaults, the config file, the environment and flags,
// then configures logging.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg, err := config.Load(configPath, flags.Changed("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("history") {
		cfg.HistoryFile = historyPath
	}
	if noHistory {
		cfg.HistoryFile = ""
	}
	if flags.Changed("debug") {
		cfg.Debug = debugOutput
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbosity > 0 {
		level = logging.VerbosityWarning + verbosity
	}
	logging.Configure(level, logFile)

	if cfg.Path != "" {
		log.Infof("using config %s", cfg.Path)
	}
	return cfg, nil
}

func newSession(cfg *config.Config, out, errOut io.Writer) (*engine.Session, error) {
	kind, err := backends.Parse(cfg.Backend)
	if err != nil {
		return nil, err
	}
	backend, err := backends.New(kind)
	if err != nil {
		return nil, err
	}
	return engine.NewSession(backend, engine.IO{Out: out, Err: errOut})
}

func newRenderer() *render.Renderer {
	return render.New(isatty.IsTerminal(os.Stderr.Fd()))
}

func renderStyle(cfg *config.Config) render.Style {
	if cfg.Debug {
		return render.Debug
	}
	return render.Plain
}

func readSources(paths []string) ([]repl.Source, error) {
	sources := make([]repl.Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		sources = append(sources, repl.Source{Name: path, Text: string(data)})
	}
	return sources, nil
}

// runSources executes batch input in one transient session.
func runSources(cmd *cobra.Command, cfg *config.Config, sources []repl.Source) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	session, err := newSession(cfg, out, errOut)
	if err != nil {
		return err
	}
	batch := repl.NewBatch(session, newRenderer(), renderStyle(cfg), out, errOut)
	return batch.RunAll(sources)
}

func runREPL(cmd *cobra.Command, cfg *config.Config) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	hist, err := history.Load(cfg.HistoryFile, cfg.HistorySize)
	if err != nil {
		log.Warningf("history disabled: %v", err)
		hist, _ = history.Load("", cfg.HistorySize)
	}

	reader, err := repl.NewReader(os.Stdin, out, hist.Entries(), cfg.HistorySize)
	if err != nil {
		return err
	}
	defer reader.Close()

	session, err := newSession(cfg, out, errOut)
	if err != nil {
		return err
	}

	loop := repl.NewLoop(repl.Config{
		Reader:             reader,
		Session:            session,
		Renderer:           newRenderer(),
		History:            hist,
		Out:                out,
		Err:                errOut,
		Prompt:             cfg.Prompt,
		ContinuationPrompt: cfg.ContinuationPrompt,
		Style:              renderStyle(cfg),
	})
	return loop.Run()
}
