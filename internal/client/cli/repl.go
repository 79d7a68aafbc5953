package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Help() string
	Users(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Show(ctx context.Context) error
	View(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Plan(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Generate(ctx context.Context) error
	Holiday(ctx context.Context, args []string) error
	Holidays(ctx context.Context) error
	AddUser(ctx context.Context) error
	EditUser(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error
	Settings(ctx context.Context) error
	Set(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF, "exit" or a cancelled ctx.
// Handler errors are printed and the loop goes on. Commands that prompt
// for more input read from the same reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("trip> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var herr error
		switch cmd {
		case "help", "?":
			printlnFn(a.Help())
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "users":
			herr = a.Users(ctx, args)
		case "login":
			herr = a.Login(ctx, args)
		case "show", "s":
			herr = a.Show(ctx)
		case "view":
			herr = a.View(ctx, args)
		case "refresh":
			herr = a.Refresh(ctx)
		case "logout":
			herr = a.Logout(ctx)
		case "plan":
			herr = a.Plan(ctx, args)
		case "toggle":
			herr = a.Toggle(ctx, args)
		case "profile":
			herr = a.Profile(ctx)
		case "generate":
			herr = a.Generate(ctx)
		case "holiday":
			herr = a.Holiday(ctx, args)
		case "holidays":
			herr = a.Holidays(ctx)
		case "adduser":
			herr = a.AddUser(ctx)
		case "edituser":
			herr = a.EditUser(ctx, args)
		case "deluser":
			herr = a.DeleteUser(ctx, args)
		case "settings":
			herr = a.Settings(ctx)
		case "set":
			herr = a.Set(ctx, args)
		default:
			printlnFn("Unknown command:", cmd)
		}
		if herr != nil {
			printlnFn("Error:", herr)
		}
	}
}
