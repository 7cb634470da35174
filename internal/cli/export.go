package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/tasker-chat/internal/store"
	"github.com/amirbrooks/tasker-chat/internal/task"
)

type exportTask struct {
	Kind  string `json:"kind" yaml:"kind"`
	Title string `json:"title" yaml:"title"`
	Done  bool   `json:"done" yaml:"done"`
	Due   string `json:"due,omitempty" yaml:"due,omitempty"`
	From  string `json:"from,omitempty" yaml:"from,omitempty"`
	To    string `json:"to,omitempty" yaml:"to,omitempty"`
}

func toExport(list *task.List) []exportTask {
	out := make([]exportTask, 0, list.Size())
	for _, t := range list.All() {
		e := exportTask{Kind: t.Kind().String(), Title: t.Title(), Done: t.Done()}
		switch t.Kind() {
		case task.KindDeadline:
			e.Due = task.FormatTimestamp(t.Due())
		case task.KindTimeRange:
			e.From = task.FormatTimestamp(t.From())
			e.To = task.FormatTimestamp(t.To())
		}
		out = append(out, e)
	}
	return out
}

func (a *app) exportCmd() *cobra.Command {
	var format string
	var dir string
	var stdout bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved task list as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return internalErr(err)
			}
			st := store.Open(a.dataFile(cfg))
			list, err := st.Load()
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return &exitError{code: ExitNotFound, err: err}
				}
				return internalErr(err)
			}
			data, ext, err := encodeExport(map[string]any{"tasks": toExport(list)}, format)
			if err != nil {
				return err
			}
			if stdout {
				_, err := a.out.Write(data)
				return err
			}
			if strings.TrimSpace(dir) == "" {
				dir = filepath.Join(filepath.Dir(st.Path), "exports")
			}
			path, err := writeExportFile(dir, "tasks", ext, data)
			if err != nil {
				return internalErr(err)
			}
			if !a.gf.Quiet {
				fmt.Fprintln(a.out, "Wrote", strings.ToUpper(ext), "to:", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json|yaml")
	cmd.Flags().StringVar(&dir, "out", "", "Export directory (default: <task file dir>/exports)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write to stdout instead of a file")
	return cmd
}

func encodeExport(payload any, format string) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		b, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return append(b, '\n'), "json", nil
	case "yaml", "yml":
		b, err := yaml.Marshal(payload)
		return b, "yaml", err
	default:
		return nil, "", fmt.Errorf("unknown export format %q (use json|yaml)", format)
	}
}

func writeExportFile(dir, base, ext string, data []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	t := time.Now().UTC()
	ts := t.Format("20060102-150405")
	name := fmt.Sprintf("%s-%s.%s", base, ts, ext)
	path := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		name = fmt.Sprintf("%s-%s-%d.%s", base, ts, i, ext)
		path = filepath.Join(dir, name)
	}
	tmp := filepath.Join(dir, ".tmp-"+ulid.Make().String())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}
