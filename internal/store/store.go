package store

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/amirbrooks/tasker-chat/internal/task"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var (
	ErrNotFound = errors.New("store not found")
	ErrCorrupt  = errors.New("corrupt record")
	ErrIO       = errors.New("io failure")
	timeNow     = func() time.Time { return time.Now().UTC() }
)

// DefaultPath is relative to the working directory of the session.
const DefaultPath = "data/tasks.txt"

// RecordError describes the first unreadable line of a store file.
// It still satisfies errors.Is(err, ErrCorrupt).
type RecordError struct {
	Line   int
	Text   string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("corrupt record at line %d: %s", e.Line, e.Reason)
}

func (e *RecordError) Is(target error) bool {
	return target == ErrCorrupt
}

// Store reads and writes a task list as one comma-separated record per line.
// It assumes it is the only writer of Path.
type Store struct {
	Path string
}

func Open(path string) *Store {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: expandHome(path)}
}

// Load reads the whole file. Any bad record aborts the load and no list is returned.
func (s *Store) Load() (*task.List, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	list := task.NewList()
	r := bufio.NewReader(f)
	n := 0
	for {
		raw, rerr := r.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrIO, rerr)
		}
		if raw != "" {
			n++
			if line := strings.TrimSpace(raw); line != "" {
				t, err := parseRecord(line)
				if err != nil {
					return nil, &RecordError{Line: n, Text: line, Reason: err.Error()}
				}
				list.Add(t)
			}
		}
		if rerr != nil {
			break
		}
	}
	return list, nil
}

// Save replaces the file with the current list. The previous content survives
// any failure.
func (s *Store) Save(list *task.List) error {
	var b strings.Builder
	for _, t := range list.All() {
		b.WriteString(t.Serialize())
		b.WriteByte('\n')
	}
	if err := atomicWriteFile(s.Path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Quarantine moves an unreadable store file aside so that the next Save does
// not overwrite it. It returns the new location.
func (s *Store) Quarantine() (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%s", s.Path, newULID())
	if err := os.Rename(s.Path, dest); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}
	return dest, nil
}

func parseRecord(line string) (*task.Task, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return nil, fmt.Errorf("want at least 3 fields, got %d", len(fields))
	}
	kind, err := task.ParseKind(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, err
	}
	var done bool
	switch strings.TrimSpace(fields[1]) {
	case "0":
		done = false
	case "1":
		done = true
	default:
		return nil, fmt.Errorf("done flag must be 0 or 1, got %q", fields[1])
	}

	// Timestamps never contain commas, so anything between the flag and the
	// trailing timestamp fields belongs to the title.
	ts := kind.TimestampFields()
	if len(fields) < 3+ts {
		return nil, fmt.Errorf("kind %s wants %d fields, got %d", kind, 3+ts, len(fields))
	}
	title := strings.Join(fields[2:len(fields)-ts], ",")
	stamps := fields[len(fields)-ts:]

	var t *task.Task
	switch kind {
	case task.KindSimple:
		t, err = task.NewSimple(title)
	case task.KindDeadline:
		t, err = task.NewDeadline(title, stamps[0])
	case task.KindTimeRange:
		t, err = task.NewTimeRange(title, stamps[0], stamps[1])
	default:
		return nil, fmt.Errorf("%w: %s", task.ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	t.SetDone(done)
	return t, nil
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", filepath.Base(path), newULID()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
