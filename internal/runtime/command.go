package runtime

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/interactions-toolbox/toolbox/internal/branding"
	"github.com/interactions-toolbox/toolbox/internal/manifest"
)

// Command is a service backed by a process, as declared in a manifest.
type Command struct {
	Extension   string // fully-qualified extension name
	Service     string
	Dir         string
	Runtime     string
	Argv        []string
	Description string
	Env         map[string]string

	// Stdout and Stderr, when set, receive output while the service runs.
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommand binds a service declaration to its extension directory.
func NewCommand(extension, service, dir string, decl manifest.ServiceDeclaration) *Command {
	return &Command{
		Extension:   extension,
		Service:     service,
		Dir:         dir,
		Runtime:     decl.Runtime,
		Argv:        slices.Clone(decl.Command),
		Description: decl.Description,
		Env:         maps.Clone(decl.Env),
	}
}

// Run executes the service with extra arguments appended to its command line.
func (c *Command) Run(ctx context.Context, args ...string) (*Output, error) {
	return DispatchRuntime(c.Runtime).Run(ctx, Invocation{
		Dir:     c.Dir,
		Command: c.Argv,
		Args:    args,
		Env:     c.environ(),
		Stdout:  c.Stdout,
		Stderr:  c.Stderr,
	})
}

func (c *Command) String() string {
	return c.Extension + ":" + c.Service + " (" + c.Runtime + ": " + strings.Join(c.Argv, " ") + ")"
}

// environ inherits the process environment, then adds the service identity
// and the declared variables.
func (c *Command) environ() []string {
	env := os.Environ()
	env = setEnv(env, branding.EnvVar("EXTENSION"), c.Extension)
	env = setEnv(env, branding.EnvVar("EXTENSION_DIR"), c.Dir)
	env = setEnv(env, branding.EnvVar("SERVICE"), c.Service)
	for _, key := range slices.Sorted(maps.Keys(c.Env)) {
		env = setEnv(env, key, c.Env[key])
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
