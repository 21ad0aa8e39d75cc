package pipeline

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ngstart-labs/ngstart/internal/boilerplate"
	"github.com/ngstart-labs/ngstart/internal/config"
	"github.com/ngstart-labs/ngstart/internal/project"
	"github.com/ngstart-labs/ngstart/internal/runner"
	"github.com/ngstart-labs/ngstart/internal/runner/runnertest"
)

// These tests run real git against a local fixture repository; npm and npx
// are faked.

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping")
	}
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

func fixtureRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		writeFile(t, dir, rel, content)
	}
	r := &runner.Exec{}
	for _, args := range [][]string{
		{"init", "-q"},
		{"add", "-A"},
		{"commit", "-q", "-m", "template history"},
		{"commit", "-q", "--allow-empty", "-m", "more template history"},
	} {
		if _, err := runner.Check(context.Background(), r, dir, "git", args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	return dir
}

func TestEndToEndDemoProject(t *testing.T) {
	requireGit(t)

	template := fixtureRepo(t, map[string]string{
		"angular.json":     "{}",
		"tslint.json":      `{"rules": {}}`,
		"src/greeting.txt": "APP_NAME says APP_PREFIX",
	})
	work := t.TempDir()
	rec := &runnertest.Recorder{Handler: runnertest.Delegate(&runner.Exec{}, "git")}

	params, err := project.Resolve(project.Options{Name: "demo", Prefix: "dm", Template: template}, config.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	res, err := New(config.Defaults(), rec, WithWorkDir(work)).Run(context.Background(), params)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.State != GitReady {
		t.Errorf("State = %s, want git-ready", res.State)
	}

	dir := filepath.Join(work, "demo")
	assertContent(t, dir, "src/greeting.txt", "demo says dm")

	out, err := runner.Check(context.Background(), &runner.Exec{}, dir, "git", "rev-list", "--count", "HEAD")
	if err != nil {
		t.Fatalf("git rev-list: %v", err)
	}
	if got := strings.TrimSpace(out.Stdout); got != "1" {
		t.Errorf("commit count = %s, want 1", got)
	}

	out, err = runner.Check(context.Background(), &runner.Exec{}, dir, "git", "status", "--porcelain")
	if err != nil {
		t.Fatalf("git status: %v", err)
	}
	if strings.TrimSpace(out.Stdout) != "" {
		t.Errorf("working tree not clean after initial commit:\n%s", out.Stdout)
	}
}

func TestEndToEndInvalidTemplate(t *testing.T) {
	requireGit(t)

	template := fixtureRepo(t, map[string]string{
		"src/greeting.txt": "APP_NAME says APP_PREFIX",
	})
	work := t.TempDir()
	rec := &runnertest.Recorder{Handler: runnertest.Delegate(&runner.Exec{}, "git")}

	params, err := project.Resolve(project.Options{Name: "demo", Prefix: "dm", Template: template}, config.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	_, err = New(config.Defaults(), rec, WithWorkDir(work)).Run(context.Background(), params)

	var invalidErr *boilerplate.InvalidTemplateError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Run() error = %v, want *InvalidTemplateError", err)
	}
	if !strings.Contains(err.Error(), "invalid template") {
		t.Errorf("Error() = %q", err.Error())
	}
	if _, statErr := os.Stat(filepath.Join(work, "demo")); !os.IsNotExist(statErr) {
		t.Error("demo/ must not exist")
	}
}
