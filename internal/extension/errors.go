package extension

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no package in the namespace matches a
	// short name.
	ErrNotFound = errors.New("extension not found")

	// ErrImport matches every *ImportError.
	ErrImport = errors.New("extension import failed")

	// ErrInstall matches every *InstallError.
	ErrInstall = errors.New("extension install failed")
)

// ImportError reports a namespace package that could not be imported.
type ImportError struct {
	Name string // fully-qualified extension name
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("importing %s: %v", e.Name, e.Err)
}

func (e *ImportError) Unwrap() []error {
	return []error{ErrImport, e.Err}
}

// InstallError reports a failed package manager invocation.
type InstallError struct {
	Package  string
	ExitCode int    // -1 when the process never ran to completion
	Output   string // combined stdout and stderr
	Err      error
}

func (e *InstallError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("installing %s: package manager exited with status %d", e.Package, e.ExitCode)
	}
	if e.Package == "" {
		return fmt.Sprintf("installing: %v", e.Err)
	}
	return fmt.Sprintf("installing %s: %v", e.Package, e.Err)
}

func (e *InstallError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInstall}
	}
	return []error{ErrInstall, e.Err}
}
