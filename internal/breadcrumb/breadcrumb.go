// Package breadcrumb correlates recently-modified agent session logs with a
// repository checkout. Some agents record the working directory of each
// session under the user's home directory; finding a fresh log whose cwd
// lies inside the repository is evidence the agent worked there, even when
// the agent process is not visible from the hook's process tree.
package breadcrumb

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/codetrail/aiattrib/internal/agent"
	"github.com/codetrail/aiattrib/internal/pathutil"
)

const (
	// maxAge is the recency window: session files modified earlier than
	// this are not considered evidence of the current commit.
	maxAge = 2 * time.Hour

	// maxScanLines bounds how far into a session file the cwd field is
	// looked for. Agents write it in the first few lines of a session.
	maxScanLines = 5

	cwdMarker = `"cwd":"`
)

// Scanner checks the breadcrumb sources of every catalog agent that has one.
type Scanner struct {
	// Home is the user's home directory; breadcrumb directories are
	// resolved relative to it.
	Home string

	// MaxAge overrides the recency window. Zero means the default.
	MaxAge time.Duration
}

// Detect returns the agents whose breadcrumbs implicate repoRoot. Sources
// are independent and probed concurrently; result order follows catalog
// declaration order regardless of which probe finishes first.
func (s *Scanner) Detect(repoRoot string) []*agent.Agent {
	if s.Home == "" || repoRoot == "" {
		return nil
	}

	age := s.MaxAge
	if age <= 0 {
		age = maxAge
	}
	cutoff := time.Now().Add(-age)

	var sources []*agent.Agent
	for i := range agent.Known {
		if agent.Known[i].BreadcrumbDir != "" {
			sources = append(sources, &agent.Known[i])
		}
	}

	// One slot per source keeps the merge deterministic.
	hits := make([]*agent.Agent, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src *agent.Agent) {
			defer wg.Done()
			if s.probeSource(src, repoRoot, cutoff) {
				hits[i] = agent.FindByIdentityPrefix(src.DisplayName())
			}
		}(i, src)
	}
	wg.Wait()

	var agents []*agent.Agent
	for _, a := range hits {
		if a != nil {
			agents = append(agents, a)
		}
	}
	return agents
}

// probeSource reports whether one agent's breadcrumbs implicate repoRoot.
func (s *Scanner) probeSource(src *agent.Agent, repoRoot string, cutoff time.Time) bool {
	base := filepath.Join(s.Home, src.BreadcrumbDir)

	if fi, err := os.Stat(base); err != nil || !fi.IsDir() {
		// Agent not installed or never used. Routine, not an error.
		slog.Debug("breadcrumb dir absent", "dir", base)
	} else if findSessionWithCwd(base, src.BreadcrumbExt, repoRoot, cutoff) {
		return true
	}

	// The Codex state database records the same cwd independently of the
	// session files.
	if src.BreadcrumbDir == codexSessionsDir {
		return codexStateMatches(s.Home, repoRoot, cutoff)
	}
	return false
}

// findSessionWithCwd walks base to arbitrary depth looking for one recent
// file with the right extension whose leading lines name a cwd inside
// repoRoot. One hit is sufficient.
func findSessionWithCwd(base, ext, repoRoot string, cutoff time.Time) bool {
	dirs := []string{base}

	for len(dirs) > 0 {
		dir := dirs[len(dirs)-1]
		dirs = dirs[:len(dirs)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if e.IsDir() {
				dirs = append(dirs, path)
				continue
			}
			if !hasExt(path, ext) || !isRecent(e, cutoff) {
				continue
			}
			if fileHasMatchingCwd(path, repoRoot) {
				slog.Debug("breadcrumb hit", "file", path)
				return true
			}
		}
	}
	return false
}

// fileHasMatchingCwd reads at most maxScanLines of the file; the first line
// carrying a cwd field decides the outcome. I/O errors and absent fields
// are silent skips.
func fileHasMatchingCwd(path, repoRoot string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 1024*1024)
	for i := 0; i < maxScanLines && scanner.Scan(); i++ {
		if cwd, ok := extractCwd(scanner.Text()); ok {
			return pathutil.Within(cwd, repoRoot)
		}
	}
	return false
}

// extractCwd pulls the value of a literal "cwd":"..." field out of a line.
// This is a deliberate narrow heuristic rather than JSON parsing: the input
// is bounded, untrusted, and only this one field matters.
func extractCwd(line string) (string, bool) {
	start := strings.Index(line, cwdMarker)
	if start < 0 {
		return "", false
	}
	rest := line[start+len(cwdMarker):]

	// Value runs to the next unescaped quote.
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '"':
			return rest[:i], true
		}
	}
	return "", false
}

func hasExt(path, ext string) bool {
	return strings.TrimPrefix(filepath.Ext(path), ".") == ext
}

func isRecent(e os.DirEntry, cutoff time.Time) bool {
	fi, err := e.Info()
	return err == nil && !fi.ModTime().Before(cutoff)
}
