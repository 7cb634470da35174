package chat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirbrooks/tasker-chat/internal/store"
	"github.com/amirbrooks/tasker-chat/internal/task"
)

type fakeSaver struct {
	saves int
	err   error
	last  []string
}

func (f *fakeSaver) Save(list *task.List) error {
	f.saves++
	f.last = f.last[:0]
	for _, t := range list.All() {
		f.last = append(f.last, t.Serialize())
	}
	return f.err
}

func newTestSession(t *testing.T, lines ...string) (*Session, *fakeSaver) {
	t.Helper()
	saver := &fakeSaver{}
	s := NewSession(nil, saver, Options{})
	for _, l := range lines {
		s.Handle(l)
	}
	saver.saves = 0
	return s, saver
}

func TestTodoAddsSimpleTask(t *testing.T) {
	s, saver := newTestSession(t)

	resp := s.Handle("todo buy milk")
	assert.False(t, resp.Exit)
	assert.Equal(t, "Got it. I've added this task:\n  [T][ ] buy milk\nNow you have 1 task in the list.", resp.Text)
	require.Equal(t, 1, s.Tasks().Size())

	got, _ := s.Tasks().Get(0)
	assert.Equal(t, "[T][ ] buy milk", got.Render())
	assert.Equal(t, 1, saver.saves)
	assert.Equal(t, []string{"T,0,buy milk"}, saver.last)
}

func TestDeadlineAddsTask(t *testing.T) {
	s, _ := newTestSession(t)

	resp := s.Handle("deadline submit report /by 2024-12-25 1200")
	assert.Contains(t, resp.Text, "[D][ ] submit report (by: Dec 25 2024, 12:00PM)")

	got, _ := s.Tasks().Get(0)
	assert.Equal(t, "D,0,submit report,2024-12-25 1200", got.Serialize())
}

func TestEventAddsTask(t *testing.T) {
	s, _ := newTestSession(t)

	resp := s.Handle("event conference /from 2024-03-01 0900 /to 2024-03-03 1730")
	assert.Contains(t, resp.Text, "[E][ ] conference (from: Mar 01 2024, 9:00AM to: Mar 03 2024, 5:30PM)")
	assert.Equal(t, 1, s.Tasks().Size())
}

func TestAddValidationMessages(t *testing.T) {
	cases := map[string]string{
		"todo    ":                               "The description of a todo cannot be empty.",
		"deadline report":                        "The description or /by date of a deadline cannot be empty.",
		"deadline /by 2024-12-25 1200":           "The description or /by date of a deadline cannot be empty.",
		"deadline report /by ":                   "The description or /by date of a deadline cannot be empty.",
		"deadline report /by tomorrow":           "Please enter dates as yyyy-MM-dd HHmm (e.g. 2019-12-02 1800).",
		"event party /from 2024-12-25 1200":      "The description, /from and /to dates of an event cannot be empty.",
		"event party /from  /to 2024-12-25 1400": "The description, /from and /to dates of an event cannot be empty.",
		"event party /from today /to tomorrow":   "Please enter dates as yyyy-MM-dd HHmm (e.g. 2019-12-02 1800).",
		"todo a\nb":                              "A task description must fit on one line.",
		"deadline a\rb /by 2024-12-25 1200":      "A task description must fit on one line.",
	}
	for in, want := range cases {
		s, saver := newTestSession(t)
		resp := s.Handle(in)
		assert.Equalf(t, want, resp.Text, "input %q", in)
		assert.Equalf(t, 0, s.Tasks().Size(), "input %q", in)
		assert.Equalf(t, 0, saver.saves, "input %q", in)
	}
}

func TestListNumbersFromOne(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, "Your task list is empty.", s.Handle("list").Text)

	s.Handle("todo a")
	s.Handle("todo b")
	assert.Equal(t, "Here are the tasks in your list:\n1.[T][ ] a\n2.[T][ ] b", s.Handle("list").Text)
}

func TestMarkAndUnmark(t *testing.T) {
	s, saver := newTestSession(t, "todo a", "todo b")

	resp := s.Handle("mark 2")
	assert.Equal(t, "Nice! I've marked this task as done:\n  [T][X] b", resp.Text)
	assert.Equal(t, 1, saver.saves)

	resp = s.Handle("unmark 2")
	assert.Equal(t, "OK, I've marked this task as not done yet:\n  [T][ ] b", resp.Text)
	got, _ := s.Tasks().Get(1)
	assert.False(t, got.Done())
	assert.Equal(t, 2, saver.saves)
}

func TestIndexErrors(t *testing.T) {
	s, saver := newTestSession(t, "todo a", "todo b")

	for _, in := range []string{"mark 5", "mark 0", "unmark -1", "delete 3"} {
		assert.Equalf(t, "Invalid task number.", s.Handle(in).Text, "input %q", in)
	}
	assert.Equal(t, "Please provide a valid task number to mark.", s.Handle("mark abc").Text)
	assert.Equal(t, "Please provide a valid task number to unmark.", s.Handle("unmark ").Text)
	assert.Equal(t, "Please provide a valid task number to delete.", s.Handle("delete one").Text)

	assert.Equal(t, 2, s.Tasks().Size())
	for i := 0; i < 2; i++ {
		got, _ := s.Tasks().Get(i)
		assert.False(t, got.Done())
	}
	assert.Equal(t, 0, saver.saves)
}

func TestDeleteReportsNewSize(t *testing.T) {
	s, _ := newTestSession(t, "todo a", "todo b", "todo c")

	resp := s.Handle("delete 2")
	assert.Equal(t, "Noted. I've removed this task:\n  [T][ ] b\nNow you have 2 tasks in the list.", resp.Text)
	assert.Equal(t, "Here are the tasks in your list:\n1.[T][ ] a\n2.[T][ ] c", s.Handle("list").Text)
}

func TestFind(t *testing.T) {
	s, _ := newTestSession(t, "todo buy milk", "todo buy eggs")

	assert.Equal(t, "Here are the matching tasks in your list:\n1.[T][ ] buy milk", s.Handle("find milk").Text)
	assert.Equal(t, "Here are the matching tasks in your list:\n1.[T][ ] buy milk", s.Handle("find MILK").Text)
	assert.Equal(t, "No tasks found matching your search.", s.Handle("find bread").Text)
	assert.Equal(t, "Please provide a keyword to find.", s.Handle("find   ").Text)
}

func TestHelpAndUnknown(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, HelpText, s.Handle("help").Text)
	assert.Equal(t, "Unrecognized command: dance. Type 'help' to see available commands.", s.Handle("dance").Text)
	assert.Equal(t, "Unrecognized command: mark. Type 'help' to see available commands.", s.Handle("mark").Text)
}

func TestByeSavesAndExits(t *testing.T) {
	s, saver := newTestSession(t, "todo a")

	resp := s.Handle("bye")
	assert.True(t, resp.Exit)
	assert.Equal(t, "Bye. Hope to see you again soon!", resp.Text)
	assert.Equal(t, 1, saver.saves)
}

func TestSaveFailureIsAWarning(t *testing.T) {
	s, saver := newTestSession(t)
	saver.err = errors.New("disk full")

	resp := s.Handle("todo a")
	assert.True(t, strings.HasPrefix(resp.Text, "Got it. I've added this task:"))
	assert.True(t, strings.HasSuffix(resp.Text, "Warning: your changes could not be saved to disk."))
	assert.NotContains(t, resp.Text, "disk full")
	assert.Equal(t, 1, s.Tasks().Size())

	resp = s.Handle("bye")
	assert.True(t, resp.Exit)
	assert.Contains(t, resp.Text, "Warning: your changes could not be saved to disk.")
	assert.Contains(t, resp.Text, "Bye.")
}

func TestGetResponse(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, s.Handle("list").Text, s.GetResponse("list"))
}

func TestHandleStripsLineEnding(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, "Your task list is empty.", s.Handle("list\r\n").Text)
}

func TestOpenRoundTripsThroughStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tasks.txt")
	st := store.Open(path)

	s, notice := Open(st, Options{})
	assert.Contains(t, notice, "No saved tasks found")
	s.Handle("todo buy milk")
	s.Handle("deadline submit report /by 2024-12-25 1200")
	s.Handle("event trip /from 2024-07-01 0800 /to 2024-07-05 2000")
	s.Handle("mark 2")
	s.Handle("delete 1")
	require.True(t, s.Handle("bye").Exit)

	reopened, notice := Open(st, Options{})
	assert.Empty(t, notice)
	require.Equal(t, 2, reopened.Tasks().Size())
	for i, want := range s.Tasks().All() {
		got, _ := reopened.Tasks().Get(i)
		assert.True(t, want.Equal(got))
	}
}

func TestOpenQuarantinesCorruptStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("T,0,fine\nX,0,bad\n"), 0o644))

	s, notice := Open(store.Open(path), Options{})
	assert.Contains(t, notice, "could not be read")
	assert.Equal(t, 0, s.Tasks().Size())

	s.Handle("todo fresh")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "T,0,fresh\n", string(b))

	matches, err := filepath.Glob(filepath.Join(dir, "tasks.txt.corrupt-*"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	old, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "T,0,fine\nX,0,bad\n", string(old))
}

func TestEventIgnoresExtraDelimiters(t *testing.T) {
	s, saver := newTestSession(t)
	resp := s.Handle("event trip /from 2024-07-01 0800 /to 2024-07-05 2000 /to 2024-07-09 2000")
	assert.Contains(t, resp.Text, "Got it.")
	assert.Equal(t, []string{"E,0,trip,2024-07-01 0800,2024-07-05 2000"}, saver.last)
}

func TestGetResponseKeepsStoreLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	st := store.Open(path)
	s, _ := Open(st, Options{})
	s.GetResponse("todo keep me")
	assert.Equal(t, "A task description must fit on one line.", s.GetResponse("todo a\nb"))

	reopened, notice := Open(st, Options{})
	assert.Empty(t, notice)
	assert.Equal(t, 1, reopened.Tasks().Size())
}

func TestOpenUnreadableStoreIsNeverOverwritten(t *testing.T) {
	// A directory in place of the file opens but cannot be read.
	path := t.TempDir()
	s, notice := Open(store.Open(path), Options{})
	assert.Contains(t, notice, "will not be saved")
	assert.Equal(t, 0, s.Tasks().Size())

	resp := s.Handle("todo new")
	assert.Contains(t, resp.Text, "Got it.")
	assert.True(t, strings.HasSuffix(resp.Text, "Warning: your changes could not be saved to disk."))

	bye := s.Handle("bye")
	assert.True(t, bye.Exit)
	assert.True(t, strings.HasPrefix(bye.Text, "Warning: your changes could not be saved to disk."))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenLongRecordSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	st := store.Open(filepath.Join(dir, "tasks.txt"))
	s, _ := Open(st, Options{})
	s.Handle("todo keep me")
	s.Handle("todo " + strings.Repeat("x", 1100*1024))
	require.True(t, s.Handle("bye").Exit)

	reopened, notice := Open(st, Options{})
	assert.Empty(t, notice)
	require.Equal(t, 2, reopened.Tasks().Size())
	first, _ := reopened.Tasks().Get(0)
	assert.Equal(t, "keep me", first.Title())

	matches, err := filepath.Glob(filepath.Join(dir, "tasks.txt.corrupt-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
