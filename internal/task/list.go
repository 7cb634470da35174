package task

import (
	"errors"
	"fmt"
	"strings"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError reports a 0-based index outside [0, Size).
// It still satisfies errors.Is(err, ErrIndexOutOfRange).
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index out of range: %d (size %d)", e.Index, e.Size)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// List is the ordered task collection of one session. Indices are 0-based and
// stay dense after Remove.
type List struct {
	tasks []*Task
}

func NewList(tasks ...*Task) *List {
	l := &List{tasks: make([]*Task, 0, len(tasks))}
	for _, t := range tasks {
		if t != nil {
			l.tasks = append(l.tasks, t)
		}
	}
	return l
}

func (l *List) Add(t *Task) {
	l.tasks = append(l.tasks, t)
}

func (l *List) Remove(i int) (*Task, error) {
	if err := l.check(i); err != nil {
		return nil, err
	}
	t := l.tasks[i]
	copy(l.tasks[i:], l.tasks[i+1:])
	l.tasks[len(l.tasks)-1] = nil
	l.tasks = l.tasks[:len(l.tasks)-1]
	return t, nil
}

func (l *List) Mark(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.tasks[i].Mark()
	return nil
}

func (l *List) Unmark(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.tasks[i].Unmark()
	return nil
}

func (l *List) Get(i int) (*Task, error) {
	if err := l.check(i); err != nil {
		return nil, err
	}
	return l.tasks[i], nil
}

// Find returns tasks whose title contains keyword, ignoring case, in list order.
// No match yields an empty slice.
func (l *List) Find(keyword string) []*Task {
	q := strings.ToLower(keyword)
	out := []*Task{}
	for _, t := range l.tasks {
		if strings.Contains(strings.ToLower(t.title), q) {
			out = append(out, t)
		}
	}
	return out
}

func (l *List) Size() int {
	return len(l.tasks)
}

// All returns a copy of the backing slice; the tasks themselves are shared.
func (l *List) All() []*Task {
	out := make([]*Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *List) check(i int) error {
	if i < 0 || i >= len(l.tasks) {
		return &IndexError{Index: i, Size: len(l.tasks)}
	}
	return nil
}
