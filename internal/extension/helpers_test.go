package extension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/interactions-toolbox/toolbox/internal/manifest"
)

const testPrefix = "interactions.ext"

// writePackage creates a namespace package directory holding the given
// manifest body.
func writePackage(t *testing.T, nsDir, name, body string) string {
	t.Helper()
	dir := filepath.Join(nsDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

const sampleManifest = `name: sample
version:
  major: 1
  minor: 2
  patch: 3
base:
  name: Sample
  services:
    ping:
      runtime: exec
      command: ["./ping.sh"]
`
