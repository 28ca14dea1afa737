// Package extension discovers, imports and installs extensions living in the
// bot framework's reserved namespace.
//
// A namespace is a directory plus an import prefix (by default
// "interactions.ext"). Every subdirectory holding an extension.yaml manifest
// is an extension package; anything else in the directory is ignored.
// Importing a package validates and decodes its manifest into a Module and
// attaches any Go code compiled into the binary under the same short name
// (see Register). Installed packages only become visible after an explicit
// re-scan through Namespace.List, Namespace.Get or a Watcher.
package extension
