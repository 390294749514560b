package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// Confirm prints a yes/no prompt to w and reads one line from scanner.
// Only "y" or "yes" (case-insensitive) count as confirmation; anything
// else, including EOF, declines.
func Confirm(scanner *bufio.Scanner, prompt string, w io.Writer) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// GetToken prints a prompt to w and reads an access token from the
// user's terminal without echo. A newline is printed after the read to
// keep the UI tidy.
func GetToken(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter access token: "); err != nil {
		return "", err
	}
	token, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(token)), nil
}
