package chat

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/amirbrooks/tasker-chat/internal/store"
	"github.com/amirbrooks/tasker-chat/internal/task"
)

type Saver interface {
	Save(list *task.List) error
}

// errNotLoaded is returned by a session whose store could not be read. Its
// file is left alone until the user fixes or removes it.
var errNotLoaded = errors.New("store was not loaded; refusing to overwrite it")

type lockedSaver struct {
	path string
}

func (l lockedSaver) Save(*task.List) error {
	return fmt.Errorf("%w: %s", errNotLoaded, l.path)
}

// Options configures a Session. A nil Logger discards log output.
type Options struct {
	Logger *log.Logger
}

// Response is the reply to one line of input. Exit is set only by "bye".
type Response struct {
	Text string
	Exit bool
}

// Session turns one line of input at a time into a change to its task list and
// a reply. It is not safe for concurrent use.
type Session struct {
	tasks *task.List
	saver Saver
	log   *log.Logger
}

func NewSession(tasks *task.List, saver Saver, opts Options) *Session {
	if tasks == nil {
		tasks = task.NewList()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{tasks: tasks, saver: saver, log: logger}
}

// Open loads the task list from st and returns a session over it. A failed
// load never fails the session: it starts empty and the returned notice says
// why. An unreadable file is moved aside first so it is not overwritten.
func Open(st *store.Store, opts Options) (*Session, string) {
	s := NewSession(nil, st, opts)
	list, err := st.Load()
	switch {
	case err == nil:
		s.tasks = list
		s.log.Printf("loaded %d tasks from %s", list.Size(), st.Path)
		return s, ""
	case errors.Is(err, store.ErrNotFound):
		s.log.Printf("load: %v", err)
		return s, fmt.Sprintf("No saved tasks found at %s. Starting with an empty list.", st.Path)
	case errors.Is(err, store.ErrCorrupt):
		s.log.Printf("load: %v", err)
		dest, qerr := st.Quarantine()
		if qerr != nil {
			s.log.Printf("quarantine: %v", qerr)
			s.saver = lockedSaver{path: st.Path}
			return s, fmt.Sprintf("Warning: saved tasks at %s could not be read. Changes in this session will not be saved.", st.Path)
		}
		return s, fmt.Sprintf("Warning: saved tasks at %s could not be read and were moved to %s. Starting with an empty list.", st.Path, dest)
	default:
		s.log.Printf("load: %v", err)
		s.saver = lockedSaver{path: st.Path}
		return s, fmt.Sprintf("Warning: saved tasks at %s could not be loaded. Changes in this session will not be saved.", st.Path)
	}
}

func (s *Session) Tasks() *task.List {
	return s.tasks
}

// GetResponse is Handle for callers that only render text.
func (s *Session) GetResponse(line string) string {
	return s.Handle(line).Text
}

func (s *Session) Handle(line string) Response {
	line = strings.TrimRight(line, "\r\n")
	verb := Classify(line)
	s.log.Printf("command %s: %q", verb, line)

	if verb == VerbBye {
		text := msgBye
		if err := s.save(); err != nil {
			text = msgSaveWarning + "\n" + text
		}
		return Response{Text: text, Exit: true}
	}

	text, changed := s.dispatch(verb, line)
	if changed {
		if err := s.save(); err != nil {
			text += "\n" + msgSaveWarning
		}
	}
	return Response{Text: text}
}

func (s *Session) dispatch(verb Verb, line string) (string, bool) {
	switch verb {
	case VerbList:
		return s.list(), false
	case VerbMark, VerbUnmark:
		return s.setDone(verb, line)
	case VerbTodo:
		return s.add(task.NewSimple(Argument(line, VerbTodo)))
	case VerbDeadline:
		return s.deadline(line)
	case VerbEvent:
		return s.event(line)
	case VerbDelete:
		return s.delete(line)
	case VerbFind:
		return s.find(line), false
	case VerbHelp:
		return HelpText, false
	default:
		return fmt.Sprintf(msgUnrecognizedFn, line), false
	}
}

func (s *Session) list() string {
	if s.tasks.Size() == 0 {
		return msgListEmpty
	}
	return numbered(msgListHeader, s.tasks.All())
}

func (s *Session) setDone(verb Verb, line string) (string, bool) {
	idx, err := ParseIndex(line)
	if err != nil {
		s.log.Printf("%s: %v", verb, err)
		return fmt.Sprintf(msgBadNumberFn, verb), false
	}
	header := msgMarked
	if verb == VerbMark {
		err = s.tasks.Mark(idx)
	} else {
		header = msgUnmarked
		err = s.tasks.Unmark(idx)
	}
	if err != nil {
		return s.indexFailure(verb, err), false
	}
	t, _ := s.tasks.Get(idx)
	return header + "\n  " + t.Render(), true
}

func (s *Session) deadline(line string) (string, bool) {
	desc, by := SplitDeadline(line)
	if desc == "" || by == "" {
		return msgEmptyDeadline, false
	}
	return s.add(task.NewDeadline(desc, by))
}

func (s *Session) event(line string) (string, bool) {
	parts := SplitEvent(line)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return msgEmptyEvent, false
	}
	return s.add(task.NewTimeRange(parts[0], parts[1], parts[2]))
}

func (s *Session) add(t *task.Task, err error) (string, bool) {
	switch {
	case err == nil:
	case errors.Is(err, task.ErrEmptyTitle):
		return msgEmptyTodo, false
	case errors.Is(err, task.ErrMultilineTitle):
		return msgMultiline, false
	case errors.Is(err, task.ErrInvalidDateFormat):
		s.log.Printf("add: %v", err)
		return msgBadDate, false
	default:
		s.log.Printf("add: %v", err)
		return msgUnexpected, false
	}
	s.tasks.Add(t)
	return fmt.Sprintf("%s\n  %s\n%s", msgAdded, t.Render(), countLine(s.tasks.Size())), true
}

func (s *Session) delete(line string) (string, bool) {
	idx, err := ParseIndex(line)
	if err != nil {
		s.log.Printf("delete: %v", err)
		return fmt.Sprintf(msgBadNumberFn, VerbDelete), false
	}
	t, err := s.tasks.Remove(idx)
	if err != nil {
		return s.indexFailure(VerbDelete, err), false
	}
	return fmt.Sprintf("%s\n  %s\n%s", msgRemoved, t.Render(), countLine(s.tasks.Size())), true
}

func (s *Session) find(line string) string {
	keyword := Argument(line, VerbFind)
	if keyword == "" {
		return msgEmptyKeyword
	}
	matches := s.tasks.Find(keyword)
	if len(matches) == 0 {
		return msgNoMatches
	}
	return numbered(msgMatchesHeader, matches)
}

func (s *Session) indexFailure(verb Verb, err error) string {
	s.log.Printf("%s: %v", verb, err)
	if errors.Is(err, task.ErrIndexOutOfRange) {
		return msgInvalidIndex
	}
	return msgUnexpected
}

func (s *Session) save() error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Save(s.tasks); err != nil {
		s.log.Printf("save: %v", err)
		return err
	}
	return nil
}

func numbered(header string, tasks []*task.Task) string {
	var b strings.Builder
	b.WriteString(header)
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d.%s", i+1, t.Render())
	}
	return b.String()
}

func countLine(n int) string {
	if n == 1 {
		return "Now you have 1 task in the list."
	}
	return fmt.Sprintf("Now you have %d tasks in the list.", n)
}
