package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/tasker-chat/internal/chat"
	"github.com/amirbrooks/tasker-chat/internal/store"
	"github.com/amirbrooks/tasker-chat/internal/tui"
	"github.com/amirbrooks/tasker-chat/internal/ui"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitInternal = 10
)

// EnvFile names the task file; it is the only environment variable read.
const EnvFile = "TASKER_FILE"

type GlobalFlags struct {
	ConfigPath string
	File       string
	Plain      bool
	Quiet      bool
	Verbose    bool
}

type app struct {
	gf  GlobalFlags
	in  io.Reader
	out io.Writer
	err io.Writer
}

// exitError carries a specific exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func internalErr(err error) error { return &exitError{code: ExitInternal, err: err} }

func Run(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{in: in, out: out, err: errOut}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, "tasker:", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return ExitUsage
	}
	return ExitOK
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tasker",
		Short:         "tasker, a text-driven task manager backed by a flat file",
		Long:          "tasker keeps to-dos, deadlines and events in a plain text file and answers one command per line.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.gf.ConfigPath, "config", store.DefaultConfigPath, "Config file (YAML)")
	pf.StringVarP(&a.gf.File, "file", "f", "", "Task file (default: $"+EnvFile+", config data_file, or "+store.DefaultPath+")")
	pf.BoolVar(&a.gf.Plain, "plain", false, "Plain output without colour")
	pf.BoolVarP(&a.gf.Quiet, "quiet", "q", false, "Skip the greeting")
	pf.BoolVarP(&a.gf.Verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		a.replCmd(),
		a.execCmd(),
		a.tuiCmd(),
		a.configCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read commands from stdin until 'bye' (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL()
		},
	}
}

func (a *app) execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command...>",
		Short: "Run a single command, e.g. tasker exec todo buy milk",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return internalErr(err)
			}
			sess, notice := a.session(cfg)
			theme := a.theme(cfg)
			if notice != "" && !a.gf.Quiet {
				fmt.Fprintln(a.err, theme.Notice(notice))
			}
			resp := sess.Handle(strings.Join(args, " "))
			fmt.Fprintln(a.out, theme.Reply(resp.Text))
			return nil
		},
	}
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Chat with tasker in a full-screen terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return internalErr(err)
			}
			sess, notice := a.session(cfg)
			if err := tui.Run(sess, a.theme(cfg), notice, a.out); err != nil {
				return internalErr(err)
			}
			return nil
		},
	}
}

func (a *app) config() (store.Config, error) {
	return store.LoadConfig(a.gf.ConfigPath)
}

// dataFile resolves the task file: --file, then $TASKER_FILE, then config.
func (a *app) dataFile(cfg store.Config) string {
	if f := strings.TrimSpace(a.gf.File); f != "" {
		return f
	}
	if env := strings.TrimSpace(os.Getenv(EnvFile)); env != "" {
		return env
	}
	return cfg.DataFile
}

func (a *app) logger() *log.Logger {
	if !a.gf.Verbose {
		return nil
	}
	return log.New(a.err, "tasker: ", log.LstdFlags)
}

func (a *app) theme(cfg store.Config) ui.Theme {
	return ui.Theme{Plain: a.gf.Plain || cfg.Plain}
}

func (a *app) session(cfg store.Config) (*chat.Session, string) {
	st := store.Open(a.dataFile(cfg))
	return chat.Open(st, chat.Options{Logger: a.logger()})
}
