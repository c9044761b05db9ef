// Package procwalk matches known agents against a point-in-time snapshot of
// the process table. Two traversals are provided: the ancestor chain of the
// hook process, and a breadth-first sweep over the subtrees of each
// ancestor's siblings. The second pass exists because an agent is not always
// a direct ancestor of the git hook — the commit may come from a separate
// terminal while the agent runs elsewhere in the same process group.
package procwalk

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/codetrail/aiattrib/internal/agent"
	"github.com/codetrail/aiattrib/internal/pathutil"
	"github.com/codetrail/aiattrib/internal/platform"
)

// Snapshot is an immutable view of the process table. It is captured once
// per detection run and shared read-only by both traversals.
type Snapshot struct {
	byPID    map[int]platform.Process
	children map[int][]int
	cwd      func(pid int) string
}

// Capture snapshots the live process table via the platform layer.
func Capture() *Snapshot {
	return New(platform.P.Processes(), platform.P.Cwd)
}

// New builds a snapshot from an explicit process list. cwd resolves a
// process's working directory and may be nil when none are known.
func New(procs []platform.Process, cwd func(pid int) string) *Snapshot {
	if cwd == nil {
		cwd = func(int) string { return "" }
	}
	s := &Snapshot{
		byPID:    make(map[int]platform.Process, len(procs)),
		children: make(map[int][]int),
		cwd:      cwd,
	}
	for _, p := range procs {
		s.byPID[p.PID] = p
		if p.PPID != p.PID {
			s.children[p.PPID] = append(s.children[p.PPID], p.PID)
		}
	}
	// Deterministic traversal order regardless of table order.
	for ppid := range s.children {
		sort.Ints(s.children[ppid])
	}
	return s
}

// Match resolves a process to a known agent. Token priority: real binary
// name, then how it was invoked (argv[0]), then the tool name passed as a
// subcommand argument — the first non-flag argv[1:] token. The cascade is
// needed because many agents launch through wrapper scripts or language
// runtimes ("node cursor-agent ...").
func Match(p platform.Process) *agent.Agent {
	if p.Name != "" {
		if a := agent.FindByToken(p.Name); a != nil {
			return a
		}
	}
	if len(p.Argv) > 0 {
		if a := agent.FindByToken(p.Argv[0]); a != nil {
			return a
		}
	}
	if len(p.Argv) > 1 {
		for _, arg := range p.Argv[1:] {
			if strings.HasPrefix(arg, "-") {
				continue
			}
			// Only the first non-flag argument is considered.
			return agent.FindByToken(arg)
		}
	}
	return nil
}

// Ancestors walks from start up the parent chain and collects every agent
// match along the way. Matches are collected, not short-circuited: a wrapper
// and its child tool may each match distinct agents. The walk stops at a
// missing pid, a self-parented root, or a revisited pid.
func (s *Snapshot) Ancestors(start int) []*agent.Agent {
	var agents []*agent.Agent
	visited := make(map[int]bool)

	cur := start
	for {
		p, ok := s.byPID[cur]
		if !ok || visited[cur] {
			break
		}
		visited[cur] = true

		if a := Match(p); a != nil {
			slog.Debug("ancestor match", "pid", cur, "name", p.Name, "agent", a.Identity)
			agents = append(agents, a)
		}

		if p.PPID == 0 || p.PPID == cur {
			break
		}
		cur = p.PPID
	}
	return agents
}

// SiblingSubtrees climbs the ancestor chain of start one generation at a
// time; at each generation it sweeps the subtree of every child of the
// current ancestor's parent. A node only counts as a match when it resolves
// to an agent and its working directory lies within repoRoot — this is what
// keeps an unrelated terminal tab running the same tool in another
// repository from being attributed.
func (s *Snapshot) SiblingSubtrees(start int, repoRoot string) []*agent.Agent {
	var agents []*agent.Agent
	climbed := make(map[int]bool)
	visited := make(map[int]bool)

	cur := start
	for {
		p, ok := s.byPID[cur]
		if !ok || climbed[cur] {
			break
		}
		climbed[cur] = true

		parent := p.PPID
		if parent == 0 || parent == cur {
			break
		}

		for _, sib := range s.children[parent] {
			agents = append(agents, s.sweepSubtree(sib, repoRoot, visited)...)
		}
		cur = parent
	}
	return agents
}

// sweepSubtree runs a breadth-first search over the subtree rooted at pid.
// The visited set is shared across the whole SiblingSubtrees run so that
// overlapping subtrees from successive generations are not reprocessed.
func (s *Snapshot) sweepSubtree(root int, repoRoot string, visited map[int]bool) []*agent.Agent {
	var agents []*agent.Agent
	queue := []int{root}

	for len(queue) > 0 {
		pid := queue[0]
		queue = queue[1:]

		if visited[pid] {
			continue
		}
		visited[pid] = true

		p, ok := s.byPID[pid]
		if !ok {
			continue
		}

		if a := Match(p); a != nil {
			if cwd := s.cwd(pid); pathutil.Within(cwd, repoRoot) {
				slog.Debug("subtree match", "pid", pid, "cwd", cwd, "agent", a.Identity)
				agents = append(agents, a)
			}
		}

		queue = append(queue, s.children[pid]...)
	}
	return agents
}
