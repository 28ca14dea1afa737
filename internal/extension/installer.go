package extension

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/interactions-toolbox/toolbox/internal/logging"
)

// DefaultProgram is the package manager used when Installer.Program is empty.
const DefaultProgram = "pip"

const defaultRetryDelay = 500 * time.Millisecond

// Installer installs extension packages by shelling out to a package
// manager as `<Program> install <package> [ExtraArgs...]`.
type Installer struct {
	Program   string
	ExtraArgs []string

	// Dir is the working directory of the package manager process.
	Dir string

	// Env entries are appended to the current process environment.
	Env []string

	// Stdout and Stderr receive the package manager's output as it runs.
	// Output is captured for InstallError either way.
	Stdout io.Writer
	Stderr io.Writer

	// Attempts above 1 retry failed installs with exponential backoff.
	// The default is a single attempt.
	Attempts   int
	RetryDelay time.Duration
}

// Install runs the package manager synchronously. A non-zero exit status is
// returned as an *InstallError carrying the status and captured output.
// Install does not re-scan any namespace.
func (i *Installer) Install(ctx context.Context, pkg string) error {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return &InstallError{ExitCode: -1, Err: errors.New("empty package name")}
	}

	program := i.Program
	if program == "" {
		program = DefaultProgram
	}
	bin, err := exec.LookPath(program)
	if err != nil {
		return &InstallError{Package: pkg, ExitCode: -1, Err: fmt.Errorf("locating package manager %q: %w", program, err)}
	}

	start := time.Now()
	if i.Attempts <= 1 {
		err = i.run(ctx, bin, pkg)
	} else {
		err = i.runWithRetry(ctx, bin, pkg)
	}

	ev := logging.Info()
	if err != nil {
		ev = logging.Error().Add(logging.ErrorField(err))
	}
	ev.Add(logging.Component("installer")).
		Add(logging.Package(pkg)).
		Add(logging.Duration(time.Since(start))).
		Msg("package manager finished")

	return err
}

func (i *Installer) runWithRetry(ctx context.Context, bin, pkg string) error {
	delay := i.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   i.Attempts,
		InitialDelay:  delay,
		BackoffPolicy: retry.BackoffExponential,
		Multiplier:    2.0,
	})

	var lastErr error
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		lastErr = i.run(ctx, bin, pkg)
		return struct{}{}, lastErr
	})
	if err == nil {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return &InstallError{Package: pkg, ExitCode: -1, Err: err}
}

func (i *Installer) run(ctx context.Context, bin, pkg string) error {
	args := append([]string{"install", pkg}, i.ExtraArgs...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = i.Dir
	if len(i.Env) > 0 {
		cmd.Env = append(os.Environ(), i.Env...)
	}

	combined := &lockedBuffer{}
	cmd.Stdout = teeTo(i.Stdout, combined)
	cmd.Stderr = teeTo(i.Stderr, combined)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return &InstallError{
			Package:  pkg,
			ExitCode: exitErr.ExitCode(),
			Output:   combined.String(),
			Err:      err,
		}
	}
	return &InstallError{Package: pkg, ExitCode: -1, Output: combined.String(), Err: err}
}

func teeTo(w io.Writer, buf *lockedBuffer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}

// lockedBuffer lets stdout and stderr copy goroutines share one buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
