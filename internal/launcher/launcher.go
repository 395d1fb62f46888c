// Package launcher starts helper programs detached from the dialog and
// checks whether they are already running.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/junegunn/go-shellwords"
	"github.com/shirou/gopsutil/process"
)

// ErrEmptyCommand is returned when a helper has no command configured.
var ErrEmptyCommand = errors.New("empty command line")

// Launcher runs command lines asynchronously, the way a desktop launcher
// does: the child gets its own session and is reaped in the background.
type Launcher struct {
	logger *slog.Logger

	start    func(cmd *exec.Cmd) error
	cmdlines func(ctx context.Context) ([]string, error)
	lookPath func(file string) (string, error)
}

// New creates a launcher.
func New(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		logger:   logger,
		start:    startDetached,
		cmdlines: processCmdlines,
		lookPath: exec.LookPath,
	}
}

// Parse splits a command line into arguments using shell quoting rules.
func Parse(commandLine string) ([]string, error) {
	args, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command line %q: %w", commandLine, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	return args, nil
}

// Launch parses commandLine and starts it without waiting for it to exit.
// The context only bounds the start; the child outlives it.
func (l *Launcher) Launch(ctx context.Context, commandLine string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	args, err := Parse(commandLine)
	if err != nil {
		return err
	}

	path, err := l.lookPath(args[0])
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", args[0], err)
	}

	cmd := exec.Command(path, args[1:]...)
	cmd.Args[0] = args[0]
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to launch %s: %w", args[0], err)
	}

	l.logger.Info("launched helper", "command", commandLine)
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// IsRunning reports whether any other process matches pattern.
func (l *Launcher) IsRunning(ctx context.Context, pattern string) (bool, error) {
	if strings.TrimSpace(pattern) == "" {
		return false, nil
	}
	cmdlines, err := l.cmdlines(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list processes: %w", err)
	}
	for _, cmdline := range cmdlines {
		if Matches(cmdline, pattern) {
			return true, nil
		}
	}
	return false, nil
}

// Matches reports whether a process command line belongs to the program
// named by pattern. A single-word pattern matches the executable's base
// name, or the script's when the program runs under an interpreter
// ("ruby -w /usr/bin/screenruler"). Interpreter options are skipped. A
// multi-word pattern matches as a substring of the command line.
func Matches(cmdline, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	if strings.ContainsAny(pattern, " \t") {
		return strings.Contains(cmdline, pattern)
	}

	for _, f := range strings.Fields(cmdline) {
		if strings.HasPrefix(f, "-") {
			continue
		}
		base := filepath.Base(f)
		if base == pattern {
			return true
		}
		if !isInterpreter(base) {
			return false
		}
	}
	return false
}

var interpreters = map[string]bool{
	"bash": true, "dash": true, "env": true, "lua": true, "node": true,
	"perl": true, "python": true, "ruby": true, "sh": true, "zsh": true,
}

// isInterpreter reports whether name runs a script given as an argument.
// Version suffixes are ignored, so python3.12 counts as python.
func isInterpreter(name string) bool {
	return interpreters[strings.TrimRight(name, "0123456789.")]
}

func processCmdlines(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	self := int32(os.Getpid())
	var out []string
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}
		out = append(out, cmdline)
	}
	return out, nil
}
