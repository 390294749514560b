package console

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// commandSurface defines the minimal command set the REPL needs to operate.
// The real Controller satisfies this interface; tests can provide a stub.
type commandSurface interface {
	RefreshList(ctx context.Context)
	StageUpload(path, displayName string)
	SubmitUpload(ctx context.Context)
	DeleteRecord(ctx context.Context, id string)
	Ask(ctx context.Context, question string)
}

// runREPL starts a read–eval–print loop for the admin console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'c'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	list                            — fetch and show the file registry
//	upload <path> [display name]    — upload a file, optionally under a label
//	upload                          — retry the previously staged upload
//	delete <id>                     — delete a file after confirmation
//	ask <question>                  — ask a question against the indexed files
//	help                            — show available commands
//	exit | quit                     — leave the program
func runREPL(ctx context.Context, c commandSurface, scanner *bufio.Scanner) {
	for {
		printlnFn("milky> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, upload <path> [display name], delete <id>, ask <question>, exit")

		case "l", "list":
			c.RefreshList(ctx)

		case "upload":
			if len(parts) > 1 {
				c.StageUpload(parts[1], strings.Join(parts[2:], " "))
			}
			c.SubmitUpload(ctx)

		case "delete":
			if len(parts) < 2 {
				printlnFn("usage: delete <id>")
				continue
			}
			c.DeleteRecord(ctx, parts[1])

		case "ask":
			c.Ask(ctx, strings.Join(parts[1:], " "))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
