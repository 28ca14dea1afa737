// Package runtime executes command-backed extension services. A service
// declared in an extension manifest names a runtime ("exec" or "node") and a
// command line; Command binds that declaration to the extension directory
// and runs it on demand.
package runtime
