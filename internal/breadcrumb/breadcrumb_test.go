package breadcrumb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codetrail/aiattrib/internal/agent"
)

// writeSession creates a session file under home with the given relative
// path and lines.
func writeSession(t *testing.T, home, rel string, lines ...string) string {
	t.Helper()
	path := filepath.Join(home, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	var content string
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractCwd(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{`{"type":"session_meta","cwd":"/Users/foo/myrepo","branch":"main"}`, "/Users/foo/myrepo", true},
		{`{"cwd":"/a/b"}`, "/a/b", true},
		{`{"cwd":"/a/\"quoted\"/b"}`, `/a/\"quoted\"/b`, true},
		{`{"type":"session_meta","branch":"main"}`, "", false},
		{`{"cwd":"/unterminated`, "", false},
		{``, "", false},
	}
	for _, tt := range tests {
		got, ok := extractCwd(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("extractCwd(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectMatchesCwdOnSecondLine(t *testing.T) {
	home := t.TempDir()
	writeSession(t, home, ".claude/projects/-Users-foo-myrepo/abc.jsonl",
		`{"type":"file-history-snapshot","messageId":"abc"}`,
		`{"type":"user","cwd":"/Users/foo/myrepo"}`,
	)

	s := &Scanner{Home: home}
	got := s.Detect("/Users/foo/myrepo")
	if len(got) != 1 || agent.EmailAddr(got[0].Identity) != "noreply@anthropic.com" {
		t.Fatalf("Detect() = %v", got)
	}

	if got := s.Detect("/Users/bar/other"); len(got) != 0 {
		t.Errorf("Detect(other repo) = %v, want empty", got)
	}
}

func TestDetectMatchesNestedDirectories(t *testing.T) {
	home := t.TempDir()
	writeSession(t, home, ".codex/sessions/2026/08/23/rollout-abc.jsonl",
		`{"payload":{"cwd":"/Users/foo/myrepo"}}`,
	)

	s := &Scanner{Home: home}
	got := s.Detect("/Users/foo/myrepo")
	if len(got) != 1 || agent.EmailAddr(got[0].Identity) != "noreply@openai.com" {
		t.Fatalf("Detect() = %v", got)
	}
}

func TestDetectMatchesMonorepoSubdir(t *testing.T) {
	home := t.TempDir()
	writeSession(t, home, ".claude/projects/p/s.jsonl",
		`{"cwd":"/Users/foo/monorepo/apps/backend"}`,
	)

	s := &Scanner{Home: home}
	if got := s.Detect("/Users/foo/monorepo"); len(got) != 1 {
		t.Fatalf("Detect() = %v, want one hit", got)
	}
}

func TestDetectRejectsPrefixLookalikeRepo(t *testing.T) {
	home := t.TempDir()
	writeSession(t, home, ".claude/projects/p/s.jsonl",
		`{"cwd":"/Users/foo/aittributor2"}`,
	)

	s := &Scanner{Home: home}
	if got := s.Detect("/Users/foo/aittributor"); len(got) != 0 {
		t.Errorf("Detect() = %v, want empty", got)
	}
}

func TestDetectIgnoresStaleFiles(t *testing.T) {
	home := t.TempDir()
	path := writeSession(t, home, ".claude/projects/p/s.jsonl",
		`{"cwd":"/Users/foo/myrepo"}`,
	)
	old := time.Now().Add(-3 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	s := &Scanner{Home: home}
	if got := s.Detect("/Users/foo/myrepo"); len(got) != 0 {
		t.Errorf("Detect() = %v, want empty for stale file", got)
	}
}

func TestDetectIgnoresWrongExtension(t *testing.T) {
	home := t.TempDir()
	writeSession(t, home, ".claude/projects/p/s.json",
		`{"cwd":"/Users/foo/myrepo"}`,
	)

	s := &Scanner{Home: home}
	if got := s.Detect("/Users/foo/myrepo"); len(got) != 0 {
		t.Errorf("Detect() = %v, want empty for wrong extension", got)
	}
}

func TestDetectFirstCwdLineDecides(t *testing.T) {
	// The first line carrying a cwd decides, even when a later line would
	// have matched.
	home := t.TempDir()
	writeSession(t, home, ".claude/projects/p/s.jsonl",
		`{"cwd":"/Users/foo/elsewhere"}`,
		`{"cwd":"/Users/foo/myrepo"}`,
	)

	s := &Scanner{Home: home}
	if got := s.Detect("/Users/foo/myrepo"); len(got) != 0 {
		t.Errorf("Detect() = %v, want empty", got)
	}
}

func TestDetectCwdBeyondScannedPrefixIgnored(t *testing.T) {
	home := t.TempDir()
	writeSession(t, home, ".claude/projects/p/s.jsonl",
		`{"n":1}`, `{"n":2}`, `{"n":3}`, `{"n":4}`, `{"n":5}`,
		`{"cwd":"/Users/foo/myrepo"}`,
	)

	s := &Scanner{Home: home}
	if got := s.Detect("/Users/foo/myrepo"); len(got) != 0 {
		t.Errorf("Detect() = %v, want empty when cwd is past line 5", got)
	}
}

func TestDetectEmptyHome(t *testing.T) {
	s := &Scanner{Home: t.TempDir()}
	if got := s.Detect("/Users/foo/myrepo"); len(got) != 0 {
		t.Errorf("Detect() = %v, want empty with no breadcrumb dirs", got)
	}

	s = &Scanner{}
	if got := s.Detect("/Users/foo/myrepo"); got != nil {
		t.Errorf("Detect() = %v, want nil with empty home", got)
	}
}

func TestDetectOrderFollowsCatalog(t *testing.T) {
	home := t.TempDir()
	writeSession(t, home, ".codex/sessions/s.jsonl", `{"cwd":"/r"}`)
	writeSession(t, home, ".claude/projects/p/s.jsonl", `{"cwd":"/r"}`)

	s := &Scanner{Home: home}
	got := s.Detect("/r")
	if len(got) != 2 {
		t.Fatalf("Detect() = %v, want two hits", got)
	}
	if agent.EmailAddr(got[0].Identity) != "noreply@anthropic.com" ||
		agent.EmailAddr(got[1].Identity) != "noreply@openai.com" {
		t.Errorf("Detect() order = [%s, %s], want claude then codex", got[0].Identity, got[1].Identity)
	}
}
