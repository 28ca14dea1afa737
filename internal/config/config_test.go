package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestNamespaceDir_EnvOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("TOOLBOX_EXTENSIONS", "/tmp/test-ext")

	dir, err := NamespaceDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/tmp/test-ext" {
		t.Errorf("expected /tmp/test-ext, got %s", dir)
	}
}

func TestNamespaceDir_ConfigKey(t *testing.T) {
	resetViper(t)
	t.Setenv("TOOLBOX_EXTENSIONS", "")
	viper.Set(KeyNamespaceDir, "/srv/bot/ext")

	dir, err := NamespaceDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/srv/bot/ext" {
		t.Errorf("expected /srv/bot/ext, got %s", dir)
	}
}

func TestNamespaceDir_Default(t *testing.T) {
	resetViper(t)
	t.Setenv("TOOLBOX_EXTENSIONS", "")

	dir, err := NamespaceDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".toolbox", "ext")
	if dir != expected {
		t.Errorf("expected %s, got %s", expected, dir)
	}
}

func TestToolboxFile(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		key    string
		expect string
	}{
		{"default", "", "", "toolbox.yaml"},
		{"config key", "", "/etc/bot/toolbox.yaml", "/etc/bot/toolbox.yaml"},
		{"env wins", "/tmp/tb.yaml", "/etc/bot/toolbox.yaml", "/tmp/tb.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv("TOOLBOX_FILE", tt.env)
			if tt.key != "" {
				viper.Set(KeyToolboxFile, tt.key)
			}
			if got := ToolboxFile(); got != tt.expect {
				t.Errorf("ToolboxFile() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestCurrent_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TOOLBOX_EXTENSIONS", "/tmp/ns")
	Load()

	s, err := Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if s.NamespaceDir != "/tmp/ns" {
		t.Errorf("NamespaceDir = %q, want /tmp/ns", s.NamespaceDir)
	}
	if s.NamespacePrefix != "interactions.ext" {
		t.Errorf("NamespacePrefix = %q, want interactions.ext", s.NamespacePrefix)
	}
	if s.InstallerProgram != DefaultInstallerProgram {
		t.Errorf("InstallerProgram = %q, want %q", s.InstallerProgram, DefaultInstallerProgram)
	}
	if s.InstallAttempts != 1 {
		t.Errorf("InstallAttempts = %d, want 1", s.InstallAttempts)
	}
	if s.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", s.LogLevel, DefaultLogLevel)
	}
}

func TestCurrent_EnvKeys(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TOOLBOX_EXTENSIONS", "/tmp/ns")
	t.Setenv("TOOLBOX_INSTALLER_PROGRAM", "uv")
	t.Setenv("TOOLBOX_INSTALLER_ATTEMPTS", "0")
	Load()

	s, err := Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if s.InstallerProgram != "uv" {
		t.Errorf("InstallerProgram = %q, want uv", s.InstallerProgram)
	}
	if s.InstallAttempts != 1 {
		t.Errorf("InstallAttempts = %d, want attempts clamped to 1", s.InstallAttempts)
	}
}

func TestSetAndGet(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", t.TempDir())
	Load()

	if err := Set(KeyInstallerProgram, "pip3"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := Get(KeyInstallerProgram); got != "pip3" {
		t.Errorf("Get() = %q, want pip3", got)
	}
	if _, err := os.Stat(FilePath()); err != nil {
		t.Errorf("expected config file at %s: %v", FilePath(), err)
	}
}

func TestSet_WritesOnlyExplicitKeys(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TOOLBOX_INSTALLER_PROGRAM", "uv")
	Load()

	if err := Set(KeyLogLevel, "debug"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := Set(KeyNamespaceDir, "/srv/bot/ext"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err := os.ReadFile(FilePath())
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("config file is not YAML: %v", err)
	}
	want := map[string]any{
		"log":       map[string]any{"level": "debug"},
		"namespace": map[string]any{"dir": "/srv/bot/ext"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config file mismatch (-want +got):\n%s", diff)
	}
	if got := Get(KeyLogLevel); got != "debug" {
		t.Errorf("Get(%s) = %q, want debug", KeyLogLevel, got)
	}
}
