package utility

import (
	"context"
	"testing"
	"time"
)

func TestShellRun(t *testing.T) {
	s := NewShell(Discard(), time.Second)

	result, err := s.Run(context.Background(), "sh", "-c", "echo hello; echo oops >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "hello" || result.Stderr != "oops" {
		t.Errorf("Run() stdout=%q stderr=%q", result.Stdout, result.Stderr)
	}
}

func TestShellRunExitCode(t *testing.T) {
	s := NewShell(Discard(), time.Second)

	result, err := s.Run(context.Background(), "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("Run() should report a non-zero exit")
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestShellRunTimeout(t *testing.T) {
	s := NewShell(Discard(), 50*time.Millisecond)

	result, err := s.Run(context.Background(), "sleep", "5")
	if err == nil {
		t.Fatal("Run() should time out")
	}
	if !result.TimedOut {
		t.Error("TimedOut should be set")
	}
}

func TestShellLookPath(t *testing.T) {
	s := NewShell(Discard(), time.Second)
	if !s.LookPath("sh") {
		t.Error("sh should be on PATH")
	}
	if s.LookPath("definitely-not-a-real-binary-3141") {
		t.Error("bogus binary should not be found")
	}
}
