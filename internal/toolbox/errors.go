package toolbox

import "errors"

var (
	// ErrDuplicateTool is returned by Add when the tool name is taken.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrServiceNotFound is returned by Add when the extension does not
	// expose the requested service.
	ErrServiceNotFound = errors.New("service not found")

	// ErrSetup wraps errors returned by an extension's setup hook.
	ErrSetup = errors.New("extension setup failed")

	// ErrToolNotFound is returned by lookups of unregistered tools.
	ErrToolNotFound = errors.New("tool not found")
)
