package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/amirbrooks/tasker-chat/internal/chat"
	"github.com/amirbrooks/tasker-chat/internal/ui"
)

func (a *app) runREPL() error {
	cfg, err := a.config()
	if err != nil {
		return internalErr(err)
	}
	sess, notice := a.session(cfg)
	greet := cfg.Greeting && !a.gf.Quiet
	if err := repl(sess, a.theme(cfg), notice, greet, a.in, a.out); err != nil {
		return internalErr(err)
	}
	return nil
}

// repl handles stdin line by line until "bye". End of input is treated as
// "bye" so the list is still saved.
func repl(sess *chat.Session, theme ui.Theme, notice string, greet bool, in io.Reader, out io.Writer) error {
	if greet {
		fmt.Fprintln(out, theme.Divider())
		fmt.Fprintln(out, theme.Banner(" Hello! I'm tasker."))
		fmt.Fprintln(out, " What can I do for you? Type 'help' for commands.")
		fmt.Fprintln(out, theme.Divider())
	}
	if notice != "" {
		fmt.Fprintln(out, theme.Notice(notice))
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, theme.Prompt())
		if !sc.Scan() {
			break
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		resp := sess.Handle(line)
		printReply(out, theme, resp.Text)
		if resp.Exit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	printReply(out, theme, sess.Handle("bye").Text)
	return nil
}

func printReply(out io.Writer, theme ui.Theme, text string) {
	fmt.Fprintln(out, theme.Divider())
	fmt.Fprintln(out, theme.Reply(text))
	fmt.Fprintln(out, theme.Divider())
}
