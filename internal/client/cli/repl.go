package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Signin(ctx context.Context) error
	Signout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL starts a read-eval-print loop for the todo CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to a. The loop exits on EOF, on "exit"/"quit", or when
// ctx is cancelled.
//
// Prompt & Commands
//
//	Signed out:
//	  - help              show available commands
//	  - signup            create an account
//	  - signin            authenticate
//	  - exit | quit       leave the program
//
//	Signed in:
//	  - (l)ist            list tasks, newest first
//	  - add               create a task
//	  - show [id]         show one task
//	  - edit [id]         replace title and description
//	  - toggle [id]       flip completion
//	  - delete [id]       delete a task
//	  - whoami            show the current account
//	  - signout           drop the session
//
// Commands that need an id prompt for it when none is given. Errors returned
// by handlers are printed and the loop continues. Command prompts read from
// the same reader, so no input is buffered away from them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("todo %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, show, edit, toggle, delete, whoami, signout, exit")
			} else {
				printlnFn("Available commands: signup, signin, exit")
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "signin", "login":
			cmdErr = a.Signin(ctx)

		case "signout", "logout":
			cmdErr = a.Signout(ctx)

		case "whoami":
			cmdErr = a.Whoami(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "add":
			cmdErr = a.Add(ctx)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "edit":
			cmdErr = a.Edit(ctx, args)

		case "toggle":
			cmdErr = a.Toggle(ctx, args)

		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}
