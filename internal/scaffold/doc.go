// Package scaffold generates new extension packages from embedded templates.
// It powers the "toolbox create" command, producing a manifest and a service
// entry point for the chosen runtime.
package scaffold
