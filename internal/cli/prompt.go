package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/tui"
)

// ErrConfirmationRequired is returned when a destructive command needs --yes because
// nobody is at a terminal to answer the prompt.
var ErrConfirmationRequired = errors.New("confirmation required: rerun with --yes")

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading input failed.
	Cancelled bool
}

// Confirm asks a yes/no question on writer and reads the answer from reader.
// The prompt defaults to "No" when the user presses Enter or closes input.
func Confirm(writer io.Writer, reader io.Reader, question string) PromptResult {
	fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		// EOF without error - treat as decline (user pressed Ctrl+D)
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// confirmAction returns nil when the action may proceed: --yes was given, or the
// user accepted the prompt at a terminal.
func confirmAction(cmd *cobra.Command, yes bool, question string) error {
	if yes {
		return nil
	}
	if !tui.IsTTY() {
		return ErrConfirmationRequired
	}
	result := Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), question)
	if !result.Accepted {
		return errors.New("aborted")
	}
	return nil
}
