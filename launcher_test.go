package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildClient_SkipsExistingBinary(t *testing.T) {
	name := filepath.Join(t.TempDir(), "livestock")
	require.NoError(t, os.WriteFile(name, []byte("bin"), 0o755))

	called := false
	err := buildClient(name, func(*exec.Cmd) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)
}

func TestBuildClient_ReportsBuildFailure(t *testing.T) {
	name := filepath.Join(t.TempDir(), "livestock")

	err := buildClient(name, func(*exec.Cmd) error {
		return errors.New("exit status 1")
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "go build")
}

func TestBuildClient_ReportsChmodFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("chmod не выполняется на windows")
	}
	name := filepath.Join(t.TempDir(), "livestock")

	// сборка «прошла», но бинарника нет
	err := buildClient(name, func(*exec.Cmd) error { return nil })
	require.Error(t, err)
	require.Contains(t, err.Error(), "chmod")
}

func TestBuildClient_BuildsAndMarksExecutable(t *testing.T) {
	name := filepath.Join(t.TempDir(), "livestock")

	err := buildClient(name, func(cmd *exec.Cmd) error {
		require.Equal(t, []string{"go", "build", "-o", name, "./cmd/livestock"}, cmd.Args)
		return os.WriteFile(name, []byte("bin"), 0o600)
	})
	require.NoError(t, err)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(name)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}
