package models

import "fmt"

// String renders a task as one list line, e.g. "[x] #12 Buy milk".
func (t *Task) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] #%d %s", mark, t.ID, t.Title)
}
