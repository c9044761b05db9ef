package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/codetrail/aiattrib/internal/agent"
	"github.com/codetrail/aiattrib/internal/breadcrumb"
	"github.com/codetrail/aiattrib/internal/config"
	"github.com/codetrail/aiattrib/internal/detect"
	"github.com/codetrail/aiattrib/internal/gitrepo"
	"github.com/codetrail/aiattrib/internal/procwalk"
	"github.com/codetrail/aiattrib/internal/trailer"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "aiattrib [msg-file [source [sha]]]",
	Short: "Git prepare-commit-msg hook that records AI agent attribution",
	Long: `aiattrib decides whether a commit was produced with help from an AI
coding agent and, if so, appends Co-authored-by and Ai-assisted trailers to
the commit message.

Invoked by git as a prepare-commit-msg hook it receives the commit message
file plus the optional source and SHA arguments. Run with no arguments it
reports the detected agents instead of editing anything.`,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := setup()
		if len(args) == 0 {
			report(cfg)
			return
		}
		runHook(cfg, args[0])
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "trace detection on stderr")
	rootCmd.AddCommand(detectCmd, installCmd, uninstallCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aiattrib:", err)
		os.Exit(1)
	}
}

// setup loads the user config and wires stderr logging.
func setup() config.Config {
	cfg := config.Load()
	level := slog.LevelWarn
	if cfg.Debug || debugFlag {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg
}

func timeoutFor(cfg config.Config) time.Duration {
	if t := cfg.Timeout(); t > 0 {
		return t
	}
	return detect.DefaultTimeout
}

// detectAgents runs one full detection pass against the live system.
func detectAgents(cfg config.Config) []*agent.Agent {
	repoRoot := ""
	if cwd, err := os.Getwd(); err == nil {
		repoRoot = gitrepo.RootOr(cwd)
	}
	home, _ := os.UserHomeDir()

	slog.Debug("detection start", "pid", os.Getpid(), "repo", repoRoot)

	d := &detect.Detector{
		PID:      os.Getpid(),
		RepoRoot: repoRoot,
		Snapshot: procwalk.Capture,
		Scanner:  &breadcrumb.Scanner{Home: home},
		Skip:     skipSet(cfg.DisabledAgents),
	}
	return d.Detect()
}

// skipSet maps disabled agent tokens from the config to dedup keys.
func skipSet(tokens []string) map[string]bool {
	if len(tokens) == 0 {
		return nil
	}
	skip := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if a := agent.FindByToken(tok); a != nil {
			skip[agent.EmailAddr(a.Identity)] = true
		}
	}
	return skip
}

// runHook annotates the commit message. The whole pass is time-boxed and
// best-effort: a slow detection or a failing rewrite must never block the
// commit, so this always leaves with status zero.
func runHook(cfg config.Config, msgFile string) {
	done := detect.RunTimeboxed(timeoutFor(cfg), func() {
		for _, a := range detectAgents(cfg) {
			if err := trailer.Append(msgFile, a); err != nil {
				fmt.Fprintf(os.Stderr, "aiattrib: failed to append trailers: %v\n", err)
			}
		}
	})
	if !done {
		fmt.Fprintln(os.Stderr, "aiattrib: timed out, skipping attribution")
	}
}

// report prints one detected identity per line and exits non-zero when
// nothing was found.
func report(cfg config.Config) {
	var agents []*agent.Agent
	done := detect.RunTimeboxed(timeoutFor(cfg), func() {
		agents = detectAgents(cfg)
	})
	if !done {
		// The abandoned worker may still be writing agents; don't read it.
		fmt.Fprintln(os.Stderr, "aiattrib: timed out")
		os.Exit(1)
	}

	if len(agents) == 0 {
		fmt.Fprintln(os.Stderr, "No agent found")
		os.Exit(1)
	}
	for _, a := range agents {
		fmt.Println(a.Identity)
	}
}
