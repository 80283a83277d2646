package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	whoami(ctx context.Context) error
	list(ctx context.Context, entity string) error
	add(ctx context.Context, entity string) error
	update(ctx context.Context, entity, id string) error
	delete(ctx context.Context, entity, id string) error
	syncNow(ctx context.Context) error
	status(ctx context.Context) error
}

func (a *App) getStatus() string {
	s := string(a.Mode())
	if a.isLoggedIn() {
		s = "auth " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Root enters the interactive loop. It blocks until the user exits or
// stdin reaches EOF.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to possync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Commands:
//
//	help                       — show available commands
//	register                   — create an account
//	login                      — authenticate
//	logout                     — drop the stored session
//	whoami                     — show the authenticated user
//	list <entity>              — list bills, products, or customers
//	add <entity>               — create a record (works offline)
//	update <entity> <id>       — replace a record (works offline)
//	delete <entity> <id>       — delete a record (works offline)
//	sync                       — replay queued mutations now
//	status                     — connectivity, session, queue depth
//	exit | quit                — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pos %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: list|add|update|delete <bills|products|customers> [...], sync, status, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, list <entity>, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.whoami(ctx)

		case "l", "list":
			if len(args) == 0 {
				printlnFn("Usage: list <bills|products|customers>")
				continue
			}
			_ = a.list(ctx, args[0])

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <bills|products|customers>")
				continue
			}
			_ = a.add(ctx, args[0])

		case "update":
			if len(args) < 2 {
				printlnFn("Usage: update <entity> <id>")
				continue
			}
			_ = a.update(ctx, args[0], args[1])

		case "delete":
			if len(args) < 2 {
				printlnFn("Usage: delete <entity> <id>")
				continue
			}
			_ = a.delete(ctx, args[0], args[1])

		case "sync":
			_ = a.syncNow(ctx)

		case "status":
			_ = a.status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
