package detect

import "time"

// DefaultTimeout bounds a whole detection-and-annotation run. Attribution
// is best-effort and must never hold up a commit.
const DefaultTimeout = time.Second

// RunTimeboxed runs fn on its own goroutine and waits at most d for it to
// finish. Returns true when fn completed in time. On timeout the worker is
// not killed — it may already have had side effects — the caller merely
// stops waiting and ignores whatever it produces later.
func RunTimeboxed(d time.Duration, fn func()) bool {
	done := make(chan struct{}, 1)
	go func() {
		fn()
		done <- struct{}{}
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
