package breadcrumb

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/codetrail/aiattrib/internal/pathutil"

	_ "modernc.org/sqlite"
)

const codexSessionsDir = ".codex/sessions"

// codexStateFile is the SQLite database where Codex records one row per
// thread, including the directory the thread was launched from.
const codexStateFile = ".codex/state_5.sqlite"

// codexStateMatches reports whether the Codex state database names a thread
// cwd inside repoRoot. The threads schema carries no timestamp we can rely
// on, so recency is judged by the database file's own mtime against the
// same cutoff used for session files. Any failure is a non-match.
func codexStateMatches(home, repoRoot string, cutoff time.Time) bool {
	dbPath := filepath.Join(home, codexStateFile)

	fi, err := os.Stat(dbPath)
	if err != nil || fi.ModTime().Before(cutoff) {
		return false
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=ro&_journal_mode=WAL")
	if err != nil {
		return false
	}
	defer db.Close()

	rows, err := db.Query("SELECT cwd FROM threads")
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cwd sql.NullString
		if rows.Scan(&cwd) != nil {
			continue
		}
		if cwd.Valid && pathutil.Within(cwd.String, repoRoot) {
			slog.Debug("codex state db hit", "cwd", cwd.String)
			return true
		}
	}
	return false
}
