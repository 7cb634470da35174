package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/tasker-chat/internal/store"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.configShow()
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set data_file, plain or greeting",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.configSet(args[0], strings.Join(args[1:], " "))
			},
		},
	)
	return cmd
}

func (a *app) configShow() error {
	cfg, err := a.config()
	if err != nil {
		return internalErr(err)
	}
	_, statErr := os.Stat(a.gf.ConfigPath)
	exists := statErr == nil

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintf(w, "config_path\t%s\n", a.gf.ConfigPath)
	fmt.Fprintf(w, "exists\t%t\n", exists)
	fmt.Fprintf(w, "data_file\t%s\n", cfg.DataFile)
	fmt.Fprintf(w, "plain\t%t\n", cfg.Plain)
	fmt.Fprintf(w, "greeting\t%t\n", cfg.Greeting)
	fmt.Fprintf(w, "effective_file\t%s\n", store.Open(a.dataFile(cfg)).Path)
	return w.Flush()
}

func (a *app) configSet(key, value string) error {
	cfg, err := a.config()
	if err != nil {
		return internalErr(err)
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := store.SaveConfig(a.gf.ConfigPath, cfg); err != nil {
		return internalErr(err)
	}
	if !a.gf.Quiet {
		fmt.Fprintf(a.out, "Updated %s\n", strings.ToLower(strings.TrimSpace(key)))
	}
	return nil
}
