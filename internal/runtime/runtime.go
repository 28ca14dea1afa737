package runtime

import (
	"context"
	"fmt"
	"io"

	"github.com/interactions-toolbox/toolbox/internal/manifest"
)

// Runtime defines the interface for executing a command service.
type Runtime interface {
	Run(ctx context.Context, inv Invocation) (*Output, error)
}

// Invocation is everything a runtime needs to start a service process.
type Invocation struct {
	Dir     string   // extension directory, also the working directory
	Command []string // declared command line
	Args    []string // caller arguments appended to the command line
	Env     []string // full environment
	Stdout  io.Writer
	Stderr  io.Writer
}

// Output captures the result of a service execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Supported runtime identifiers.
const (
	RuntimeExec = manifest.RuntimeExec
	RuntimeNode = manifest.RuntimeNode
)

// DispatchRuntime returns the appropriate Runtime implementation for the given
// runtime identifier. Returns an error-producing runtime for unknown values.
func DispatchRuntime(runtime string) Runtime {
	switch runtime {
	case RuntimeExec:
		return &ExecRuntime{}
	case RuntimeNode:
		return &NodeRuntime{}
	default:
		return &unknownRuntime{name: runtime}
	}
}

// unknownRuntime is returned when the runtime identifier is not recognized.
type unknownRuntime struct {
	name string
}

func (u *unknownRuntime) Run(_ context.Context, _ Invocation) (*Output, error) {
	return nil, fmt.Errorf("unknown runtime %q: supported runtimes are %q and %q", u.name, RuntimeExec, RuntimeNode)
}
