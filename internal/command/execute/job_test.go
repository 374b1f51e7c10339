package execute

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"tasker/internal/models"
)

// writeScript writes an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return p
}

func TestExecuteSuccessCreatesArchiveDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	bin := writeScript(t, dir, "fake-dl", `printf '%s\n' "$@" > "`+argsFile+`"; echo downloading`)
	archiveDir := filepath.Join(dir, "archives")

	var stdout bytes.Buffer
	ex := NewJobExecutor(bin, archiveDir)
	ex.Stdout = &stdout

	d := models.Download{Name: "news", Profiles: models.StringList{"audio"}, URLs: models.StringList{"https://example.com/a"}}
	p := models.Profile{Name: "audio", Args: []string{"-x"}}

	if err := ex.Execute(context.Background(), d, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info, err := os.Stat(archiveDir); err != nil || !info.IsDir() {
		t.Fatalf("expected archive directory to be created, stat error: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("failed to read recorded args: %v", err)
	}
	want := strings.Join([]string{
		"--download-archive", filepath.Join(archiveDir, "news-audio.txt"),
		"-x",
		"https://example.com/a",
	}, "\n") + "\n"
	if string(data) != want {
		t.Fatalf("unexpected args:\n got: %q\nwant: %q", data, want)
	}

	if !strings.Contains(stdout.String(), "downloading") {
		t.Fatalf("expected process output to pass through, got %q", stdout.String())
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := writeScript(t, dir, "failing-dl", "exit 3")

	ex := NewJobExecutor(bin, filepath.Join(dir, "archives"))
	ex.Stdout, ex.Stderr = &bytes.Buffer{}, &bytes.Buffer{}

	err := ex.Execute(context.Background(),
		models.Download{Name: "news", URLs: models.StringList{"https://example.com/a"}},
		models.Profile{Name: "audio"})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Fatalf("expected exit code 3, got %d", exitErr.Code)
	}
}

func TestExecuteLaunchError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ex := NewJobExecutor(filepath.Join(dir, "does-not-exist"), filepath.Join(dir, "archives"))

	err := ex.Execute(context.Background(),
		models.Download{Name: "news", URLs: models.StringList{"https://example.com/a"}},
		models.Profile{Name: "audio"})

	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("expected *LaunchError, got %v", err)
	}
}

func TestExecuteNoArchiveSkipsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := writeScript(t, dir, "fake-dl", "exit 0")
	archiveDir := filepath.Join(dir, "archives")
	off := false

	ex := NewJobExecutor(bin, archiveDir)
	err := ex.Execute(context.Background(),
		models.Download{Name: "news", URLs: models.StringList{"https://example.com/a"}},
		models.Profile{Name: "video", Archive: &off})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(archiveDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no archive directory when archiving is disabled, stat error: %v", err)
	}
}
