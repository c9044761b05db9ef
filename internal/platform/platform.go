package platform

// Process is one row of the OS process table.
type Process struct {
	PID  int
	PPID int
	// Name is the kernel's short binary name (comm). May be empty when the
	// platform could not determine it.
	Name string
	// Argv is the full command line, argv[0] first.
	Argv []string
}

// Platform abstracts OS-specific process introspection.
type Platform interface {
	// Processes returns a point-in-time view of the whole process table.
	Processes() []Process
	// Cwd returns the current working directory of a process, or "" when
	// it cannot be determined. Looked up lazily because it is only needed
	// for processes that already matched an agent.
	Cwd(pid int) string
}

// P is the platform-specific implementation, initialised by an init() in
// the platform_linux.go or platform_darwin.go file.
var P Platform
