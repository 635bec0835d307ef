package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/privychat/sharekit/internal/models"
)

// readPassword is a test seam for term.ReadPassword.
// In tests, replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input was
// read, the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password from the
// user's terminal without echo. A newline is printed after the read to keep
// the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetYesNo prints a yes/no prompt to w and interprets the answer. An empty
// answer selects def. Anything other than y/yes/n/no (case-insensitive) is
// an error.
func GetYesNo(reader *bufio.Reader, prompt string, def bool, w io.Writer) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := GetSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, hint), w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized answer %q", answer)
	}
}

// GetDuration prompts for a link lifetime in seconds and validates it against
// the allowed set. An empty answer selects "never expires".
func GetDuration(reader *bufio.Reader, w io.Writer) (models.ExpiryDuration, error) {
	prompt := "Link lifetime in seconds (60, 3600, 86400, 604800, 1209600, 2592000, 7776000; empty = never)"
	answer, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return models.ExpiryNever, nil
	}
	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", answer)
	}
	d := models.ExpiryDuration(n)
	if !d.Valid() {
		return 0, models.ErrInvalidDuration
	}
	return d, nil
}
