package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isManager() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	Tasks(ctx context.Context) error
	Users(ctx context.Context) error
	Create(ctx context.Context) error
	Status(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Contact(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: signup, login, upload <path>, exit"
	helpUser      = "Available commands: me, (t)asks, status <task-id> <status>, upload <path>, contact, logout, exit"
	helpManager   = "Available commands: me, (t)asks, users, create, upload <path>, contact, logout, exit"
)

// runREPL reads a line from reader, parses the first token as the command
// and dispatches to a. Unknown commands are reported back to the user. The
// loop exits on EOF or when the user types "exit" or "quit".
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tl %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error

		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpAnonymous)
			case a.isManager():
				printlnFn(helpManager)
			default:
				printlnFn(helpUser)
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "me":
			cmdErr = a.Me(ctx)

		case "t", "tasks":
			cmdErr = a.Tasks(ctx)

		case "users":
			cmdErr = a.Users(ctx)

		case "create":
			cmdErr = a.Create(ctx)

		case "status":
			cmdErr = a.Status(ctx, args)

		case "upload":
			cmdErr = a.Upload(ctx, args)

		case "contact":
			cmdErr = a.Contact(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			log.Printf("%s: %s", cmd, cmdErr.Error())
		}
	}
}
