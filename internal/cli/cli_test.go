package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/interactions-toolbox/toolbox/internal/extension"
	"github.com/interactions-toolbox/toolbox/internal/manifest"
	"github.com/interactions-toolbox/toolbox/internal/toolbox"
)

// testEnv isolates one CLI invocation: a fresh HOME, an empty namespace and
// reset flag state.
type testEnv struct {
	home string
	ns   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	env := &testEnv{home: t.TempDir(), ns: filepath.Join(t.TempDir(), "ext")}
	if err := os.MkdirAll(env.ns, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", env.home)
	t.Setenv("TOOLBOX_EXTENSIONS", env.ns)
	t.Setenv("TOOLBOX_FILE", filepath.Join(env.home, toolbox.FileName))
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagLogLevel, flagNamespace = "", ""
	listJSON, infoJSON = false, false
	installRescan, installAttempts = false, 0
	toolsFile = ""
	versionShort, versionJSON = false, false
	createRuntime, createService, createDir = "exec", "hello", ""
	doctorFix = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func (e *testEnv) writePackage(t *testing.T, name, body string) string {
	t.Helper()
	dir := filepath.Join(e.ns, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
}

const sampleManifest = `name: sample
version: {major: 1, minor: 2, patch: 3}
description: Sample extension
author: catalyst
base:
  name: Sample
  services:
    ping:
      runtime: exec
      command: ["./ping.sh"]
`

const pingScript = "#!/bin/sh\necho \"pong $@\"\n[ \"$1\" = fail ] && exit 3\nexit 0\n"

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)
	buildVersion, buildCommit, buildDate = "1.0.0", "abc123", "today"

	out, err := env.run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "toolbox version 1.0.0 (commit: abc123, built: today)\n" {
		t.Errorf("version output = %q", out)
	}

	out, err = env.run(t, "version", "--short")
	if err != nil || out != "1.0.0\n" {
		t.Errorf("version --short = %q, %v", out, err)
	}
}

func TestListCommand_Empty(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No extensions installed") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestListCommand_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.writePackage(t, "sample", sampleManifest)

	out, err := env.run(t, "list", "--json")
	if err != nil {
		t.Fatal(err)
	}

	var entries []listEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Name != "interactions.ext.sample" || e.Version != "1.2.3" || len(e.Services) != 1 || e.Services[0] != "ping" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestListCommand_ImportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.writePackage(t, "sample", sampleManifest)
	env.writePackage(t, "broken", "name: broken\nunknown: 1\n")

	_, err := env.run(t, "list")
	if !errors.Is(err, extension.ErrImport) {
		t.Fatalf("list error = %v, want ErrImport", err)
	}
}

func TestInfoCommand(t *testing.T) {
	env := newTestEnv(t)
	env.writePackage(t, "sample", sampleManifest)

	out, err := env.run(t, "info", "sample")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"interactions.ext.sample", "1.2.3", "catalyst", "ping", "exec ./ping.sh"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}

	if _, err := env.run(t, "info", "missing"); !errors.Is(err, extension.ErrNotFound) {
		t.Errorf("info missing error = %v, want ErrNotFound", err)
	}
}

func TestValidateCommand(t *testing.T) {
	env := newTestEnv(t)
	good := env.writePackage(t, "sample", sampleManifest)
	bad := env.writePackage(t, "bad", "name: bad\nbase:\n  services:\n    x:\n      runtime: python\n      command: [a]\n")

	out, err := env.run(t, "validate", good)
	if err != nil {
		t.Fatalf("validate good error = %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = env.run(t, "validate", filepath.Join(bad, manifest.FileName))
	var invalid *manifest.InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("validate bad error = %v, want *manifest.InvalidError", err)
	}
	if !strings.Contains(out, "/base/services/x/runtime") {
		t.Errorf("expected the failing path in output:\n%s", out)
	}
}

func TestToolsCommands(t *testing.T) {
	env := newTestEnv(t)
	env.writePackage(t, "sample", sampleManifest)
	path := filepath.Join(env.home, toolbox.FileName)

	out, err := env.run(t, "tools", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No tools declared") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := env.run(t, "tools", "add", "ping", "sample"); err != nil {
		t.Fatalf("tools add error = %v", err)
	}
	if _, err := env.run(t, "tools", "add", "ping", "sample"); !errors.Is(err, toolbox.ErrDuplicateTool) {
		t.Errorf("second tools add error = %v, want ErrDuplicateTool", err)
	}
	if _, err := env.run(t, "tools", "add", "pong", "sample"); !errors.Is(err, toolbox.ErrServiceNotFound) {
		t.Errorf("tools add pong error = %v, want ErrServiceNotFound", err)
	}
	if _, err := env.run(t, "tools", "add", "ping2", "missing"); !errors.Is(err, extension.ErrNotFound) {
		t.Errorf("tools add from missing extension error = %v, want ErrNotFound", err)
	}

	f, err := toolbox.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Tools) != 1 || f.Tools[0] != (toolbox.ToolEntry{Name: "ping", Extension: "sample"}) {
		t.Errorf("toolbox file = %+v", f.Tools)
	}

	out, err = env.run(t, "tools", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ping") || !strings.Contains(out, "interactions.ext.sample") {
		t.Errorf("tools list output:\n%s", out)
	}

	if _, err := env.run(t, "tools", "remove", "ping"); err != nil {
		t.Fatalf("tools remove error = %v", err)
	}
	if _, err := env.run(t, "tools", "remove", "ping"); !errors.Is(err, toolbox.ErrToolNotFound) {
		t.Errorf("second tools remove error = %v, want ErrToolNotFound", err)
	}
}

func TestRunCommand(t *testing.T) {
	requireShell(t)
	env := newTestEnv(t)
	dir := env.writePackage(t, "sample", sampleManifest)
	if err := os.WriteFile(filepath.Join(dir, "ping.sh"), []byte(pingScript), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := env.run(t, "run", "sample", "ping", "hello")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if strings.TrimSpace(out) != "pong hello" {
		t.Errorf("run output = %q", out)
	}

	_, err = env.run(t, "run", "sample", "ping", "fail")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Errorf("run fail error = %v, want exit status 3", err)
	}
	if ExitCode(err) != 3 {
		t.Errorf("ExitCode() = %d, want 3", ExitCode(err))
	}

	if _, err := env.run(t, "run", "sample", "nope"); !errors.Is(err, toolbox.ErrServiceNotFound) {
		t.Errorf("run unknown service error = %v, want ErrServiceNotFound", err)
	}
}

func TestInstallCommand(t *testing.T) {
	requireShell(t)
	env := newTestEnv(t)

	// The fake package manager drops a package into the namespace.
	program := filepath.Join(env.home, "fake-pip")
	script := "#!/bin/sh\nmkdir -p \"$TOOLBOX_EXTENSIONS/sample\"\n" +
		"printf 'name: sample\\nversion_string: 0.3.0\\n' > \"$TOOLBOX_EXTENSIONS/sample/" + manifest.FileName + "\"\n" +
		"echo \"installed $2\"\n"
	if err := os.WriteFile(program, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLBOX_INSTALLER_PROGRAM", program)

	out, err := env.run(t, "install", "interactions-sample", "--rescan")
	if err != nil {
		t.Fatalf("install error = %v", err)
	}
	for _, want := range []string{"installed interactions-sample", "interactions.ext.sample", "0.3.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("install output missing %q:\n%s", want, out)
		}
	}
}

func TestInstallCommand_Failure(t *testing.T) {
	requireShell(t)
	env := newTestEnv(t)

	program := filepath.Join(env.home, "fake-pip")
	if err := os.WriteFile(program, []byte("#!/bin/sh\nexit 2\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLBOX_INSTALLER_PROGRAM", program)

	_, err := env.run(t, "install", "interactions-nope")
	var ie *extension.InstallError
	if !errors.As(err, &ie) || ie.ExitCode != 2 {
		t.Errorf("install error = %v, want InstallError with status 2", err)
	}
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "config", "set", "installer.program", "uv"); err != nil {
		t.Fatal(err)
	}
	out, err := env.run(t, "config", "get", "installer.program")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "uv" {
		t.Errorf("config get = %q, want uv", out)
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(errors.New("plain")) != 1 {
		t.Error("plain errors should exit 1")
	}
	if ExitCode(&ExitError{Code: 7}) != 7 {
		t.Error("ExitError code should pass through")
	}
}

func TestCreateCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "create", "music", "--runtime", "node", "--service", "play")
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	if !strings.Contains(out, "interactions.ext.music") || !strings.Contains(out, "play.mjs") {
		t.Errorf("create output:\n%s", out)
	}

	out, err = env.run(t, "info", "music")
	if err != nil {
		t.Fatalf("info after create error = %v", err)
	}
	if !strings.Contains(out, "node play.mjs") {
		t.Errorf("info output:\n%s", out)
	}

	if _, err := env.run(t, "create", "music"); err == nil {
		t.Error("create into an existing package should fail")
	}
}

func TestDoctorCommand(t *testing.T) {
	requireShell(t)
	env := newTestEnv(t)
	missing := filepath.Join(t.TempDir(), "not-yet")
	t.Setenv("TOOLBOX_EXTENSIONS", missing)
	t.Setenv("TOOLBOX_INSTALLER_PROGRAM", "sh")

	out, err := env.run(t, "doctor", "--fix")
	if err != nil {
		t.Fatalf("doctor error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "[FIX ] Created "+missing) {
		t.Errorf("doctor output:\n%s", out)
	}
	if _, err := os.Stat(missing); err != nil {
		t.Errorf("namespace directory not created: %v", err)
	}

	t.Setenv("TOOLBOX_INSTALLER_PROGRAM", "definitely-not-a-package-manager")
	out, err = env.run(t, "doctor")
	if !errors.Is(err, errDoctor) {
		t.Errorf("doctor error = %v, want errDoctor", err)
	}
	if !strings.Contains(out, "[FAIL] definitely-not-a-package-manager not found") {
		t.Errorf("doctor output:\n%s", out)
	}
}
