package breadcrumb

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codetrail/aiattrib/internal/agent"
)

// writeCodexStateDB creates a minimal Codex state database under home.
func writeCodexStateDB(t *testing.T, home string, cwds ...string) string {
	t.Helper()
	dbPath := filepath.Join(home, codexStateFile)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE threads (id TEXT PRIMARY KEY, title TEXT, rollout_path TEXT, cwd TEXT)`); err != nil {
		t.Fatal(err)
	}
	for i, cwd := range cwds {
		if _, err := db.Exec(`INSERT INTO threads (id, title, rollout_path, cwd) VALUES (?, ?, ?, ?)`,
			i, "t", "/tmp/rollout.jsonl", cwd); err != nil {
			t.Fatal(err)
		}
	}
	return dbPath
}

func TestCodexStateMatches(t *testing.T) {
	home := t.TempDir()
	writeCodexStateDB(t, home, "/Users/foo/otherproject", "/Users/foo/myrepo/pkg")

	cutoff := time.Now().Add(-2 * time.Hour)
	if !codexStateMatches(home, "/Users/foo/myrepo", cutoff) {
		t.Error("codexStateMatches() = false, want true")
	}
	if codexStateMatches(home, "/Users/bar/elsewhere", cutoff) {
		t.Error("codexStateMatches() = true for unrelated repo")
	}
}

func TestCodexStateMatchesStaleDB(t *testing.T) {
	home := t.TempDir()
	dbPath := writeCodexStateDB(t, home, "/Users/foo/myrepo")

	old := time.Now().Add(-3 * time.Hour)
	if err := os.Chtimes(dbPath, old, old); err != nil {
		t.Fatal(err)
	}

	cutoff := time.Now().Add(-2 * time.Hour)
	if codexStateMatches(home, "/Users/foo/myrepo", cutoff) {
		t.Error("codexStateMatches() = true for stale database")
	}
}

func TestCodexStateMatchesMissingDB(t *testing.T) {
	cutoff := time.Now().Add(-2 * time.Hour)
	if codexStateMatches(t.TempDir(), "/Users/foo/myrepo", cutoff) {
		t.Error("codexStateMatches() = true with no database")
	}
}

func TestDetectViaCodexStateDB(t *testing.T) {
	// No session JSONL at all; the state database alone implicates Codex.
	home := t.TempDir()
	writeCodexStateDB(t, home, "/Users/foo/myrepo")

	s := &Scanner{Home: home}
	got := s.Detect("/Users/foo/myrepo")
	if len(got) != 1 || agent.EmailAddr(got[0].Identity) != "noreply@openai.com" {
		t.Fatalf("Detect() = %v, want the Codex agent", got)
	}
}
