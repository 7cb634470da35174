package chat

const (
	msgBye            = "Bye. Hope to see you again soon!"
	msgInvalidIndex   = "Invalid task number."
	msgEmptyTodo      = "The description of a todo cannot be empty."
	msgEmptyDeadline  = "The description or /by date of a deadline cannot be empty."
	msgEmptyEvent     = "The description, /from and /to dates of an event cannot be empty."
	msgBadDate        = "Please enter dates as yyyy-MM-dd HHmm (e.g. 2019-12-02 1800)."
	msgMultiline      = "A task description must fit on one line."
	msgEmptyKeyword   = "Please provide a keyword to find."
	msgNoMatches      = "No tasks found matching your search."
	msgMatchesHeader  = "Here are the matching tasks in your list:"
	msgListHeader     = "Here are the tasks in your list:"
	msgListEmpty      = "Your task list is empty."
	msgAdded          = "Got it. I've added this task:"
	msgRemoved        = "Noted. I've removed this task:"
	msgMarked         = "Nice! I've marked this task as done:"
	msgUnmarked       = "OK, I've marked this task as not done yet:"
	msgSaveWarning    = "Warning: your changes could not be saved to disk."
	msgUnexpected     = "Sorry, something went wrong handling that command."
	msgUnrecognizedFn = "Unrecognized command: %s. Type 'help' to see available commands."
	msgBadNumberFn    = "Please provide a valid task number to %s."
)

const HelpText = `Here is what I understand:
  list                                      show all tasks
  todo <description>                        add a to-do
  deadline <description> /by <date>         add a task with a deadline
  event <description> /from <date> /to <date>
                                            add an event with a time range
  mark <n>                                  mark task n as done
  unmark <n>                                mark task n as not done
  delete <n>                                remove task n
  find <keyword>                            search task titles
  help                                      show this message
  bye                                       save and quit
Dates use yyyy-MM-dd HHmm, e.g. 2019-12-02 1800.`
