//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/interactions-toolbox/toolbox/internal/extension"
	"github.com/interactions-toolbox/toolbox/internal/manifest"
)

const prefix = "interactions.ext"

// testEnv holds paths to isolated test directories.
type testEnv struct {
	NamespaceDir string // TOOLBOX_EXTENSIONS, where packages get installed
	StageDir     string // package sources the fake installer copies from
	BinDir       string // fake package manager
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so every toolbox operation is sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}

	env := &testEnv{
		NamespaceDir: filepath.Join(t.TempDir(), "ext"),
		StageDir:     t.TempDir(),
		BinDir:       t.TempDir(),
	}
	if err := os.MkdirAll(env.NamespaceDir, 0755); err != nil {
		t.Fatalf("creating namespace: %v", err)
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("TOOLBOX_EXTENSIONS", env.NamespaceDir)
	t.Setenv("TOOLBOX_STAGE", env.StageDir)

	// The fake package manager "installs" interactions-<name> by copying
	// $TOOLBOX_STAGE/<name> into the namespace, and fails for unknown packages.
	writeExecutable(t, env.fakeInstaller(), `#!/bin/sh
[ "$1" = install ] || exit 64
name=${2#interactions-}
[ -d "$TOOLBOX_STAGE/$name" ] || { echo "ERROR: No matching distribution found for $2" >&2; exit 1; }
cp -R "$TOOLBOX_STAGE/$name" "$TOOLBOX_EXTENSIONS/$name"
echo "Successfully installed $2"
`)

	return env
}

func (e *testEnv) fakeInstaller() string {
	return filepath.Join(e.BinDir, "fake-pip")
}

func (e *testEnv) namespace() *extension.Namespace {
	return extension.NewNamespace(prefix, e.NamespaceDir)
}

func (e *testEnv) installer() *extension.Installer {
	return &extension.Installer{Program: e.fakeInstaller()}
}

// stagePackage prepares a package the fake installer can install.
func stagePackage(t *testing.T, env *testEnv, name, manifestBody string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(env.StageDir, name)
	writeFile(t, filepath.Join(dir, manifest.FileName), manifestBody)
	for rel, content := range files {
		writeExecutable(t, filepath.Join(dir, rel), content)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	writeFile(t, path, content)
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

const sampleManifest = `name: sample
version:
  major: 1
  minor: 2
  patch: 3
description: Sample extension
base:
  name: Sample
  services:
    ping:
      runtime: exec
      command: ["./ping.sh"]
`

const pingScript = `#!/bin/sh
echo "pong from $TOOLBOX_EXTENSION $*"
`
