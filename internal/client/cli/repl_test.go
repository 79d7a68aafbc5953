package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	planErr  error
}

func (f *fakeExec) rec(name string, args ...string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Help() string     { return "HELP" }
func (f *fakeExec) Users(_ context.Context, a []string) error {
	return f.rec("users", a...)
}
func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.rec("login", a...)
}
func (f *fakeExec) Show(context.Context) error { return f.rec("show") }
func (f *fakeExec) View(_ context.Context, a []string) error {
	return f.rec("view", a...)
}
func (f *fakeExec) Refresh(context.Context) error { return f.rec("refresh") }
func (f *fakeExec) Logout(context.Context) error  { return f.rec("logout") }
func (f *fakeExec) Plan(_ context.Context, a []string) error {
	_ = f.rec("plan", a...)
	return f.planErr
}
func (f *fakeExec) Toggle(_ context.Context, a []string) error {
	return f.rec("toggle", a...)
}
func (f *fakeExec) Profile(context.Context) error  { return f.rec("profile") }
func (f *fakeExec) Generate(context.Context) error { return f.rec("generate") }
func (f *fakeExec) Holiday(_ context.Context, a []string) error {
	return f.rec("holiday", a...)
}
func (f *fakeExec) Holidays(context.Context) error { return f.rec("holidays") }
func (f *fakeExec) AddUser(context.Context) error  { return f.rec("adduser") }
func (f *fakeExec) EditUser(_ context.Context, a []string) error {
	return f.rec("edituser", a...)
}
func (f *fakeExec) DeleteUser(_ context.Context, a []string) error {
	return f.rec("deluser", a...)
}
func (f *fakeExec) Settings(context.Context) error { return f.rec("settings") }
func (f *fakeExec) Set(_ context.Context, a []string) error {
	return f.rec("set", a...)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	prev := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = prev })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}
	in := strings.Join([]string{
		"help",
		"",
		"login 3",
		"PLAN 1 2 3",
		"toggle 4",
		"view holiday-calendar",
		"holiday 2025-06-09",
		"set price 12.5",
		"deluser 7",
		"bogus",
		"exit",
		"show",
	}, "\n") + "\n"

	runREPL(context.Background(), f, func() string { return "status" }, bufio.NewReader(strings.NewReader(in)))

	assert.Equal(t, []string{
		"login 3",
		"plan 1 2 3",
		"toggle 4",
		"view holiday-calendar",
		"holiday 2025-06-09",
		"set price 12.5",
		"deluser 7",
	}, f.calls)
	assert.Contains(t, *out, "HELP")
	assert.Contains(t, *out, "Unknown command: bogus")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "trip> status >")
}

func TestRunREPL_PrintsHandlerErrors(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{planErr: errors.New("boom")}

	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader("plan 1")))

	assert.Equal(t, []string{"plan 1"}, f.calls)
	assert.Contains(t, *out, "Error: boom")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeExec{}

	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("show\n")))

	assert.Empty(t, f.calls)
}
