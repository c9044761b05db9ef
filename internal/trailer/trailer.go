// Package trailer appends attribution trailers to a commit message file by
// driving `git interpret-trailers`.
package trailer

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/codetrail/aiattrib/internal/agent"
)

const aiAssisted = "Ai-assisted: true"

// Append adds "Co-authored-by: <identity>" and "Ai-assisted: true" trailers
// to msgFile. The append is idempotent: when the agent's email address
// already appears next to a Co-authored-by trailer — under any display
// name — nothing is rewritten. `--if-exists addIfDifferent` keeps the
// Ai-assisted marker single no matter how many agents are appended.
func Append(msgFile string, a *agent.Agent) error {
	content, err := os.ReadFile(msgFile)
	if err != nil {
		return err
	}

	if hasCoAuthor(string(content), a) {
		slog.Debug("trailer already present", "agent", a.Identity)
		return nil
	}

	coAuthored := "Co-authored-by: " + a.Identity
	out, err := exec.Command(
		"git", "interpret-trailers",
		"--in-place",
		"--trailer", coAuthored,
		"--if-exists", "addIfDifferent",
		"--trailer", aiAssisted,
		msgFile,
	).CombinedOutput()
	if err != nil {
		return fmt.Errorf("git interpret-trailers: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// hasCoAuthor reports whether the message already credits the agent's email
// on a Co-authored-by trailer.
func hasCoAuthor(content string, a *agent.Agent) bool {
	return strings.Contains(content, "Co-authored-by:") &&
		strings.Contains(content, agent.EmailAddr(a.Identity))
}
