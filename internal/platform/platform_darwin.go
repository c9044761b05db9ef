//go:build darwin

package platform

import (
	"os/exec"
	"strconv"
	"strings"
)

// Compile-time interface check.
var _ Platform = (*darwinPlatform)(nil)

type darwinPlatform struct{}

func init() { P = &darwinPlatform{} }

// Processes builds the table from two ps passes: one for pid/ppid/comm and
// one for the full command line. comm can contain spaces, so it must be the
// last column of its pass.
func (d *darwinPlatform) Processes() []Process {
	byPID := make(map[int]*Process)

	out, err := exec.Command("ps", "axww", "-o", "pid=,ppid=,comm=").Output()
	if err != nil {
		return nil
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		pid, err1 := strconv.Atoi(fields[0])
		ppid, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			continue
		}
		byPID[pid] = &Process{
			PID:  pid,
			PPID: ppid,
			Name: strings.Join(fields[2:], " "),
		}
	}

	out, err = exec.Command("ps", "axww", "-o", "pid=,command=").Output()
	if err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			pid, err := strconv.Atoi(fields[0])
			if err != nil {
				continue
			}
			if p, ok := byPID[pid]; ok {
				p.Argv = fields[1:]
			}
		}
	}

	procs := make([]Process, 0, len(byPID))
	for _, p := range byPID {
		procs = append(procs, *p)
	}
	return procs
}

// Cwd runs `lsof -a -p PID -d cwd -Fn` and returns the process's current
// working directory, or "" when lsof fails or reports nothing.
func (d *darwinPlatform) Cwd(pid int) string {
	out, err := exec.Command("lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd", "-Fn").Output()
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(out), "\n") {
		// lsof -Fn prefixes the file name with "n"; keep absolute paths only.
		if strings.HasPrefix(line, "n/") {
			return line[1:]
		}
	}
	return ""
}
