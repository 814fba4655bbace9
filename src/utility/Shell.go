package utility

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Shell provides command execution capabilities
type Shell struct {
	logger  *Logger
	timeout time.Duration
}

// Result contains the output of a command execution
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
	Command  string
}

// NewShell creates a new Shell executor whose commands time out after timeout
func NewShell(logger *Logger, timeout time.Duration) *Shell {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Shell{logger: logger, timeout: timeout}
}

// Run executes name with args and waits for it to finish. Arguments are passed
// straight to the program, never through a shell.
func (s *Shell) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	execCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	command := strings.Join(append([]string{name}, args...), " ")
	s.logger.Debug("exec: %s", command)

	startTime := time.Now()
	cmd := exec.CommandContext(execCtx, name, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()

	result := &Result{
		ExitCode: 0,
		Stdout:   strings.TrimSpace(stdoutBuf.String()),
		Stderr:   strings.TrimSpace(stderrBuf.String()),
		Duration: time.Since(startTime),
		Command:  command,
	}

	// Check if command timed out
	if execCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		return result, fmt.Errorf("%s timed out after %v", name, s.timeout)
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%s exited with code %d: %s", name, result.ExitCode, result.Stderr)
		}
		result.ExitCode = -1
		return result, fmt.Errorf("command failed: %w", err)
	}

	return result, nil
}

// Start launches name in its own process group and returns without waiting.
// Used for long-lived helpers such as swaybg or the desktop shell.
func (s *Shell) Start(name string, args ...string) error {
	s.logger.Debug("spawn: %s %s", name, strings.Join(args, " "))

	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	// Reap the child so it never lingers as a zombie while we are alive
	go cmd.Wait()
	return nil
}

// LookPath reports whether an executable is on PATH
func (s *Shell) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// IsRunning reports whether a process with exactly this name exists
func (s *Shell) IsRunning(ctx context.Context, name string) bool {
	result, err := s.Run(ctx, "pgrep", "-x", name)
	return err == nil && result.ExitCode == 0
}
