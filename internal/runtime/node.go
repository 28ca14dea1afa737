package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// NodeRuntime executes Node.js services: the first command element is the
// entry script, relative to the extension directory.
type NodeRuntime struct{}

func (n *NodeRuntime) Run(ctx context.Context, inv Invocation) (*Output, error) {
	if len(inv.Command) == 0 {
		return nil, errors.New("node runtime requires an entry script")
	}

	nodeBin, err := exec.LookPath("node")
	if err != nil {
		return nil, fmt.Errorf("node runtime requires Node.js: %w", err)
	}

	entryPoint := inv.Command[0]
	if !filepath.IsAbs(entryPoint) {
		entryPoint = filepath.Join(inv.Dir, entryPoint)
	}
	if _, err := os.Stat(entryPoint); err != nil {
		return nil, fmt.Errorf("service entry point not found at %s: %w", entryPoint, err)
	}

	argv := append([]string{entryPoint}, inv.Command[1:]...)
	argv = append(argv, inv.Args...)
	return execute(ctx, nodeBin, argv, inv)
}
