//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Compile-time interface check.
var _ Platform = (*linuxPlatform)(nil)

type linuxPlatform struct{}

func init() { P = &linuxPlatform{} }

// Processes scans /proc/[0-9]* and returns one Process per readable entry.
// Processes that disappear mid-scan are skipped.
func (l *linuxPlatform) Processes() []Process {
	entries, err := filepath.Glob("/proc/[0-9]*")
	if err != nil {
		return nil
	}

	procs := make([]Process, 0, len(entries))
	for _, entry := range entries {
		pid, err := strconv.Atoi(filepath.Base(entry))
		if err != nil {
			continue
		}

		name, ppid, ok := readStat(entry)
		if !ok {
			continue
		}

		procs = append(procs, Process{
			PID:  pid,
			PPID: ppid,
			Name: name,
			Argv: readCmdline(entry),
		})
	}
	return procs
}

// ReadCwd resolution via the /proc/{pid}/cwd symlink. Kernel threads and
// processes owned by other users yield "".
func (l *linuxPlatform) Cwd(pid int) string {
	link, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
	if err != nil {
		return ""
	}
	return link
}

// readStat parses /proc/{pid}/stat for the comm name and parent PID.
// Format: "pid (comm) state ppid ...". comm may itself contain spaces and
// parentheses, so the name is taken up to the last ')'.
func readStat(procDir string) (name string, ppid int, ok bool) {
	data, err := os.ReadFile(filepath.Join(procDir, "stat"))
	if err != nil {
		return "", 0, false
	}
	s := string(data)

	open := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if open < 0 || end < open {
		return "", 0, false
	}
	name = s[open+1 : end]

	fields := strings.Fields(s[end+1:])
	// fields[0] is the state character, fields[1] the ppid.
	if len(fields) < 2 {
		return name, 0, true
	}
	ppid, _ = strconv.Atoi(fields[1])
	return name, ppid, true
}

// readCmdline splits the null-delimited /proc/{pid}/cmdline into argv.
func readCmdline(procDir string) []string {
	data, err := os.ReadFile(filepath.Join(procDir, "cmdline"))
	if err != nil || len(data) == 0 {
		return nil
	}

	var argv []string
	for _, arg := range strings.Split(string(data), "\x00") {
		if arg != "" {
			argv = append(argv, arg)
		}
	}
	return argv
}
