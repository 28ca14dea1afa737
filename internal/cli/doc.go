// Package cli defines the Cobra command tree for the toolbox CLI. Each file
// in this package registers one top-level command (list, install, tools, etc.)
// with the root command. Command implementations delegate to internal packages
// for discovery and registry logic and only handle flags and output.
package cli
