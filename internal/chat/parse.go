package chat

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrArgument marks malformed command syntax, as opposed to a well-formed
// command that refers to a task that does not exist.
var ErrArgument = errors.New("argument error")

// Verb is the command a line of input was classified as.
type Verb int

const (
	VerbUnknown Verb = iota
	VerbBye
	VerbList
	VerbMark
	VerbUnmark
	VerbTodo
	VerbDeadline
	VerbEvent
	VerbDelete
	VerbFind
	VerbHelp
)

func (v Verb) String() string {
	switch v {
	case VerbBye:
		return "bye"
	case VerbList:
		return "list"
	case VerbMark:
		return "mark"
	case VerbUnmark:
		return "unmark"
	case VerbTodo:
		return "todo"
	case VerbDeadline:
		return "deadline"
	case VerbEvent:
		return "event"
	case VerbDelete:
		return "delete"
	case VerbFind:
		return "find"
	case VerbHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Classify matches case-sensitively. Commands that take arguments are matched
// on their prefix including the trailing space.
func Classify(line string) Verb {
	switch {
	case line == "bye":
		return VerbBye
	case line == "list":
		return VerbList
	case strings.HasPrefix(line, "mark "):
		return VerbMark
	case strings.HasPrefix(line, "unmark "):
		return VerbUnmark
	case strings.HasPrefix(line, "todo "):
		return VerbTodo
	case strings.HasPrefix(line, "deadline "):
		return VerbDeadline
	case strings.HasPrefix(line, "event "):
		return VerbEvent
	case strings.HasPrefix(line, "delete "):
		return VerbDelete
	case line == "help":
		return VerbHelp
	case strings.HasPrefix(line, "find "):
		return VerbFind
	default:
		return VerbUnknown
	}
}

// ParseIndex reads the second space-separated token as a 1-based task number
// and returns it 0-based. Range is not checked here.
func ParseIndex(line string) (int, error) {
	parts := strings.Split(line, " ")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: missing task number", ErrArgument)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a task number", ErrArgument, parts[1])
	}
	return n - 1, nil
}

// Argument returns everything after the command word, trimmed.
func Argument(line string, v Verb) string {
	return strings.TrimSpace(strings.TrimPrefix(line, v.String()+" "))
}

// SplitDeadline splits "deadline <desc> /by <date>" at the first "/by".
// A missing "/by" yields an empty date.
func SplitDeadline(line string) (desc, by string) {
	rest := strings.TrimPrefix(line, "deadline ")
	parts := strings.SplitN(rest, "/by", 2)
	desc = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		by = strings.TrimSpace(parts[1])
	}
	return desc, by
}

var eventDelims = regexp.MustCompile(`/from|/to`)

// SplitEvent splits "event <desc> /from <a> /to <b>" on either delimiter and
// keeps the first three trimmed segments. Order of the delimiters is not
// checked and anything after the third segment is dropped.
func SplitEvent(line string) []string {
	rest := strings.TrimPrefix(line, "event ")
	parts := eventDelims.Split(rest, -1)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
