package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
}

func TestExecExitCodes(t *testing.T) {
	requireSh(t)

	tests := []struct {
		name     string
		script   string
		wantCode int
	}{
		{"exit 0", "exit 0", 0},
		{"exit 1", "exit 1", 1},
		{"exit 42", "exit 42", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&Exec{}).Run(context.Background(), "", "sh", "-c", tt.script)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if out.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", out.ExitCode, tt.wantCode)
			}
		})
	}
}

func TestExecCapturesAndStreams(t *testing.T) {
	requireSh(t)

	var live bytes.Buffer
	r := &Exec{Stdout: &live}
	out, err := r.Run(context.Background(), "", "sh", "-c", "echo hello; echo oops >&2")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.Stdout, "hello") {
		t.Errorf("Stdout = %q, want to contain hello", out.Stdout)
	}
	if !strings.Contains(out.Stderr, "oops") {
		t.Errorf("Stderr = %q, want to contain oops", out.Stderr)
	}
	if !strings.Contains(live.String(), "hello") {
		t.Errorf("live stdout = %q, want to contain hello", live.String())
	}
}

func TestExecRunsInDirWithEnv(t *testing.T) {
	requireSh(t)

	dir := t.TempDir()
	r := &Exec{Env: []string{"NGSTART_TEST_VALUE=abc"}}
	out, err := r.Run(context.Background(), dir, "sh", "-c", "pwd; echo $NGSTART_TEST_VALUE")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.Stdout, "abc") {
		t.Errorf("Stdout = %q, want env value", out.Stdout)
	}
}

func TestExecMissingBinary(t *testing.T) {
	_, err := (&Exec{}).Run(context.Background(), "", "ngstart-definitely-not-a-binary")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestExecInterrupted(t *testing.T) {
	requireSh(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := (&Exec{}).Run(ctx, "", "sh", "-c", "sleep 5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want context.DeadlineExceeded", err)
	}

	_, err = Check(ctx, &Exec{}, "", "sh", "-c", "sleep 5")
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("interrupted command reported as exit %d", exitErr.ExitCode)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Check() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestCheckConvertsExitCode(t *testing.T) {
	requireSh(t)

	_, err := Check(context.Background(), &Exec{}, "", "sh", "-c", "echo broken >&2; exit 3")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Check() error = %v, want *ExitError", err)
	}
	if exitErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", exitErr.ExitCode)
	}
	if !strings.Contains(exitErr.Error(), "broken") {
		t.Errorf("Error() = %q, want stderr included", exitErr.Error())
	}
}

func TestCommandLine(t *testing.T) {
	if got := CommandLine("git", []string{"clone", "url", "dir"}); got != "git clone url dir" {
		t.Errorf("CommandLine() = %q", got)
	}
	if got := CommandLine("npm", nil); got != "npm" {
		t.Errorf("CommandLine() = %q", got)
	}
}
