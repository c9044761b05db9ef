// Package agent holds the static catalog of known AI coding agents and the
// lookups used to match a process token, an environment, or an identity
// prefix back to a catalog entry.
package agent

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvMatch is a single environment variable requirement: the variable must
// exist and its value must equal Value exactly.
type EnvMatch struct {
	Key   string
	Value string
}

// Agent describes one known AI coding tool. Entries are immutable and live
// for the whole process; lookups return pointers into Known.
type Agent struct {
	// ProcessNames are lowercase substrings matched against the basename of
	// a process token. An empty slice means the agent is never matched by
	// process name.
	ProcessNames []string

	// EnvVars are the environment variables that identify the agent when it
	// cannot be seen in the process table. All entries must match.
	EnvVars []EnvMatch

	// Identity is the git author identity used in trailers, in
	// "Display Name <email>" form.
	Identity string

	// BreadcrumbDir is the session-log directory the agent writes under the
	// user's home directory, empty if the agent leaves no breadcrumbs.
	BreadcrumbDir string

	// BreadcrumbExt is the session-log file extension (without dot).
	BreadcrumbExt string
}

// Known is the agent catalog. Declaration order matters: when a token could
// match more than one entry, the earliest declared entry wins.
var Known = []Agent{
	{
		ProcessNames:  []string{"claude"},
		Identity:      "Claude Code <noreply@anthropic.com>",
		BreadcrumbDir: ".claude/projects",
		BreadcrumbExt: "jsonl",
	},
	{
		ProcessNames: []string{"goose"},
		Identity:     "Goose <opensource@block.xyz>",
	},
	{
		ProcessNames: []string{"cursor", "cursor-agent"},
		Identity:     "Cursor <noreply@cursor.com>",
	},
	{
		ProcessNames: []string{"aider"},
		Identity:     "Aider <noreply@aider.chat>",
	},
	{
		ProcessNames: []string{"windsurf"},
		Identity:     "Windsurf <noreply@codeium.com>",
	},
	{
		ProcessNames:  []string{"codex"},
		Identity:      "Codex <noreply@openai.com>",
		BreadcrumbDir: ".codex/sessions",
		BreadcrumbExt: "jsonl",
	},
	{
		ProcessNames: []string{"copilot-agent"},
		Identity:     "GitHub Copilot <noreply@github.com>",
	},
	{
		ProcessNames: []string{"amazon-q", "q"},
		Identity:     "Amazon Q Developer <noreply@amazon.com>",
	},
	{
		ProcessNames: []string{"amp"},
		Identity:     "Amp <amp@ampcode.com>",
	},
	{
		EnvVars:  []EnvMatch{{Key: "CLINE_ACTIVE", Value: "true"}},
		Identity: "Cline <noreply@cline.bot>",
	},
	{
		ProcessNames: []string{"gemini"},
		Identity:     "Gemini CLI Agent <gemini-cli-agent@google.com>",
	},
}

// FindByToken returns the first catalog entry whose process-name patterns
// contain a substring of the token's lowercased basename. Tokens may be bare
// names ("claude"), invocations ("claude-code"), or full paths
// ("/opt/homebrew/bin/amp").
func FindByToken(token string) *Agent {
	base := filepath.Base(token)
	if base == "." || base == string(filepath.Separator) {
		base = token
	}
	base = strings.ToLower(base)

	for i := range Known {
		for _, pn := range Known[i].ProcessNames {
			if strings.Contains(base, pn) {
				return &Known[i]
			}
		}
	}
	return nil
}

// FindByEnv returns the first catalog entry all of whose required
// environment variables are set to their expected values in the current
// process environment. Entries with no env requirements never match.
func FindByEnv() *Agent {
	for i := range Known {
		if len(Known[i].EnvVars) == 0 {
			continue
		}
		ok := true
		for _, ev := range Known[i].EnvVars {
			if v, set := os.LookupEnv(ev.Key); !set || v != ev.Value {
				ok = false
				break
			}
		}
		if ok {
			return &Known[i]
		}
	}
	return nil
}

// FindByIdentityPrefix returns the first catalog entry whose identity string
// starts with prefix. Used to map a breadcrumb source back to its agent.
func FindByIdentityPrefix(prefix string) *Agent {
	for i := range Known {
		if strings.HasPrefix(Known[i].Identity, prefix) {
			return &Known[i]
		}
	}
	return nil
}

// EmailAddr extracts the address part of an identity string: the text
// between '<' and '>', or the whole string when no angle brackets are
// present.
func EmailAddr(identity string) string {
	start := strings.Index(identity, "<")
	if start < 0 {
		return identity
	}
	end := strings.Index(identity[start+1:], ">")
	if end < 0 {
		return identity
	}
	return identity[start+1 : start+1+end]
}

// DisplayName returns the identity's display-name part, with any trailing
// "<email>" stripped.
func (a *Agent) DisplayName() string {
	if i := strings.Index(a.Identity, "<"); i > 0 {
		return strings.TrimSpace(a.Identity[:i])
	}
	return a.Identity
}
