package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) whoami(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) list(ctx context.Context, entity string) error {
	f.calls = append(f.calls, "list")
	f.args = append(f.args, entity)
	return nil
}
func (f *fakeExec) add(ctx context.Context, entity string) error {
	f.calls = append(f.calls, "add")
	f.args = append(f.args, entity)
	return nil
}
func (f *fakeExec) update(ctx context.Context, entity, id string) error {
	f.calls = append(f.calls, "update")
	f.args = append(f.args, entity+"/"+id)
	return nil
}
func (f *fakeExec) delete(ctx context.Context, entity, id string) error {
	f.calls = append(f.calls, "delete")
	f.args = append(f.args, entity+"/"+id)
	return nil
}
func (f *fakeExec) syncNow(ctx context.Context) error {
	f.calls = append(f.calls, "sync")
	return nil
}
func (f *fakeExec) status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"add products",
		"list bills",
		"update products 7",
		"delete customers 3",
		"sync",
		"status",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "add", "list", "update", "delete", "sync", "status"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}

	wantArgs := []string{"products", "bills", "products/7", "customers/3"}
	for i, want := range wantArgs {
		if exec.args[i] != want {
			t.Fatalf("args mismatch: got %v, want %v", exec.args, wantArgs)
		}
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("list\nadd\nupdate products\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
