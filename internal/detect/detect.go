// Package detect orchestrates the detection signals — environment
// variables, process ancestry, sibling subtrees, and breadcrumbs — and
// merges their matches into one attribution answer.
package detect

import (
	"log/slog"

	"github.com/codetrail/aiattrib/internal/agent"
	"github.com/codetrail/aiattrib/internal/breadcrumb"
	"github.com/codetrail/aiattrib/internal/procwalk"
)

// Detector runs one detection pass. All collaborators are injected; the
// detector itself holds no OS state.
type Detector struct {
	// PID is the hook process id the walks start from.
	PID int

	// RepoRoot constrains subtree and breadcrumb matches to this checkout.
	RepoRoot string

	// Snapshot captures the process table. Called at most once per Detect.
	Snapshot func() *procwalk.Snapshot

	// Scanner probes breadcrumb sources. Nil disables the fallback.
	Scanner *breadcrumb.Scanner

	// Skip drops agents by email after the merge (user-disabled agents).
	Skip map[string]bool
}

// Detect runs all signals and returns the deduplicated agent list. Signals
// never short-circuit each other: multiple agents can legitimately be
// implicated in one commit, and the union is reported.
//
// The breadcrumb scan involves filesystem I/O with high latency variance,
// so it runs on its own goroutine concurrent with the synchronous process
// walks and is joined last. Merge order is fixed — env, ancestry,
// descendants, breadcrumbs — regardless of wall-clock finishing order.
func (d *Detector) Detect() []*agent.Agent {
	crumbs := make(chan []*agent.Agent, 1)
	if d.Scanner != nil {
		go func() { crumbs <- d.Scanner.Detect(d.RepoRoot) }()
	} else {
		crumbs <- nil
	}

	var agents []*agent.Agent

	if a := agent.FindByEnv(); a != nil {
		slog.Debug("env match", "agent", a.Identity)
		agents = append(agents, a)
	}

	if d.Snapshot != nil {
		snap := d.Snapshot()
		agents = append(agents, snap.Ancestors(d.PID)...)
		agents = append(agents, snap.SiblingSubtrees(d.PID, d.RepoRoot)...)
	}

	agents = append(agents, <-crumbs...)

	return Dedup(agents, d.Skip)
}

// Dedup filters agents to the first occurrence per email address,
// preserving relative order, and drops skipped emails. The email is the
// identity key: two entries with different display names but the same
// address are one author.
func Dedup(agents []*agent.Agent, skip map[string]bool) []*agent.Agent {
	seen := make(map[string]bool, len(agents))
	out := make([]*agent.Agent, 0, len(agents))
	for _, a := range agents {
		addr := agent.EmailAddr(a.Identity)
		if seen[addr] || skip[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, a)
	}
	return out
}
