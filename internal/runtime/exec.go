package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExecRuntime runs the declared command directly. A program path containing
// a separator is resolved against the extension directory; bare names are
// looked up on PATH.
type ExecRuntime struct{}

func (e *ExecRuntime) Run(ctx context.Context, inv Invocation) (*Output, error) {
	if len(inv.Command) == 0 {
		return nil, errors.New("exec runtime requires a command")
	}

	program := inv.Command[0]
	if strings.ContainsRune(program, '/') || strings.ContainsRune(program, filepath.Separator) {
		if !filepath.IsAbs(program) {
			program = filepath.Join(inv.Dir, program)
		}
	} else {
		resolved, err := exec.LookPath(program)
		if err != nil {
			return nil, fmt.Errorf("exec runtime: %w", err)
		}
		program = resolved
	}

	argv := append(append([]string{}, inv.Command[1:]...), inv.Args...)
	return execute(ctx, program, argv, inv)
}

// execute starts the process and captures its output while streaming it to
// the invocation's writers. A non-zero exit is reported in Output.ExitCode,
// not as an error.
func execute(ctx context.Context, program string, argv []string, inv Invocation) (*Output, error) {
	cmd := exec.CommandContext(ctx, program, argv...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = tee(inv.Stdout, &stdoutBuf)
	cmd.Stderr = tee(inv.Stderr, &stderrBuf)

	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", filepath.Base(program), err)
	}

	return output, nil
}

func tee(w io.Writer, buf *bytes.Buffer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}
