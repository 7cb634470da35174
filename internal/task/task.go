package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrEmptyTitle        = errors.New("title is required")
	ErrMultilineTitle    = errors.New("title must be a single line")
	ErrUnknownKind       = errors.New("unknown task kind")
)

const (
	// StorageLayout is yyyy-MM-dd HHmm. Used for input and for the store file.
	StorageLayout = "2006-01-02 1504"
	// DisplayLayout is only used by Render.
	DisplayLayout = "Jan 02 2006, 3:04PM"
)

// Kind is the discriminant of a Task. The set is closed.
type Kind byte

const (
	KindSimple    Kind = 'T'
	KindDeadline  Kind = 'D'
	KindTimeRange Kind = 'E'
)

func (k Kind) String() string {
	return string(k)
}

// TimestampFields is the number of trailing timestamp fields a record of this kind carries.
func (k Kind) TimestampFields() int {
	switch k {
	case KindDeadline:
		return 1
	case KindTimeRange:
		return 2
	default:
		return 0
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "T":
		return KindSimple, nil
	case "D":
		return KindDeadline, nil
	case "E":
		return KindTimeRange, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Task is a to-do, a deadline or a time-ranged event. Only the fields that
// belong to its Kind are set; title never changes after construction.
type Task struct {
	kind  Kind
	title string
	done  bool
	due   time.Time
	from  time.Time
	to    time.Time
}

func NewSimple(title string) (*Task, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	return &Task{kind: KindSimple, title: title}, nil
}

func NewDeadline(title, due string) (*Task, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	d, err := ParseTimestamp(due)
	if err != nil {
		return nil, err
	}
	return &Task{kind: KindDeadline, title: title, due: d}, nil
}

// NewTimeRange does not require from to precede to.
func NewTimeRange(title, from, to string) (*Task, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	f, err := ParseTimestamp(from)
	if err != nil {
		return nil, err
	}
	t, err := ParseTimestamp(to)
	if err != nil {
		return nil, err
	}
	return &Task{kind: KindTimeRange, title: title, from: f, to: t}, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	// A record is one line on disk.
	if strings.ContainsAny(title, "\r\n") {
		return "", ErrMultilineTitle
	}
	return title, nil
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(StorageLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want yyyy-MM-dd HHmm)", ErrInvalidDateFormat, s)
	}
	return t, nil
}

func FormatTimestamp(t time.Time) string {
	return t.Format(StorageLayout)
}

func (t *Task) Kind() Kind { return t.kind }
func (t *Task) Title() string { return t.title }
func (t *Task) Done() bool { return t.done }
func (t *Task) Due() time.Time { return t.due }
func (t *Task) From() time.Time { return t.from }
func (t *Task) To() time.Time { return t.to }
func (t *Task) Mark() { t.done = true }
func (t *Task) Unmark() { t.done = false }
func (t *Task) SetDone(done bool) { t.done = done }

// Render returns the one-line human form, e.g. "[D][ ] submit report (by: Dec 25 2024, 12:00PM)".
func (t *Task) Render() string {
	var b strings.Builder
	b.WriteString("[" + t.kind.String() + "]")
	if t.done {
		b.WriteString("[X] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(t.title)
	switch t.kind {
	case KindDeadline:
		fmt.Fprintf(&b, " (by: %s)", t.due.Format(DisplayLayout))
	case KindTimeRange:
		fmt.Fprintf(&b, " (from: %s to: %s)", t.from.Format(DisplayLayout), t.to.Format(DisplayLayout))
	}
	return b.String()
}

// Serialize returns the store record for t, without a trailing newline.
func (t *Task) Serialize() string {
	flag := "0"
	if t.done {
		flag = "1"
	}
	fields := []string{t.kind.String(), flag, t.title}
	switch t.kind {
	case KindDeadline:
		fields = append(fields, FormatTimestamp(t.due))
	case KindTimeRange:
		fields = append(fields, FormatTimestamp(t.from), FormatTimestamp(t.to))
	}
	return strings.Join(fields, ",")
}

// Equal compares kind, title, done flag and the variant timestamps.
func (t *Task) Equal(o *Task) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.kind == o.kind &&
		t.title == o.title &&
		t.done == o.done &&
		t.due.Equal(o.due) &&
		t.from.Equal(o.from) &&
		t.to.Equal(o.to)
}
