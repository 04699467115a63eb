package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

var errBadID = errors.New("task id must be a positive number")

func (a *App) List(ctx context.Context) error {
	tasks, err := a.taskService.List(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks yet (use add)")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintln(a.out, t)
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	t, err := a.taskService.Create(ctx, title, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", t)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.taskID(args, "Enter task id to show")
	if err != nil {
		return err
	}
	t, err := a.taskService.Get(ctx, id)
	if err != nil {
		return err
	}
	a.printTask(t)
	return nil
}

// Edit replaces the title and description of a task. The completion flag is
// left as it is.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.taskID(args, "Enter task id to edit")
	if err != nil {
		return err
	}
	current, err := a.taskService.Get(ctx, id)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Enter title (empty keeps %q)", current.Title), a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = current.Title
	}
	description, err := GetMultiline(a.reader, "Enter description (empty clears it)", a.out)
	if err != nil {
		return err
	}

	t, err := a.taskService.Update(ctx, id, title, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", t)
	return nil
}

func (a *App) Toggle(ctx context.Context, args []string) error {
	id, err := a.taskID(args, "Enter task id to toggle")
	if err != nil {
		return err
	}
	t, err := a.taskService.Toggle(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, t)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.taskID(args, "Enter task id to delete")
	if err != nil {
		return err
	}
	if err := a.taskService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted #%d\n", id)
	return nil
}

// taskID takes the id from the first argument or, if there is none, asks.
func (a *App) taskID(args []string, prompt string) (int64, error) {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else {
		s, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return 0, err
		}
		raw = s
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func (a *App) printTask(t *models.Task) {
	fmt.Fprintln(a.out, t)
	if t.Description != nil {
		fmt.Fprintln(a.out, *t.Description)
	}
	fmt.Fprintf(a.out, "created %s, updated %s\n", t.CreatedAt.Format(time.DateTime), t.UpdatedAt.Format(time.DateTime))
}
