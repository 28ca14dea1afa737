package extension

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/interactions-toolbox/toolbox/internal/logging"
	"github.com/interactions-toolbox/toolbox/internal/manifest"
	"github.com/interactions-toolbox/toolbox/internal/runtime"
)

// Namespace is the reserved directory extensions are installed into.
type Namespace struct {
	Prefix string // import prefix, e.g. "interactions.ext"
	Dir    string // directory backing the namespace
}

// NewNamespace returns a namespace rooted at dir.
func NewNamespace(prefix, dir string) *Namespace {
	return &Namespace{Prefix: prefix, Dir: dir}
}

// Qualify returns the fully-qualified name of a short extension name.
func (ns *Namespace) Qualify(shortName string) string {
	if ns.Prefix == "" {
		return shortName
	}
	return ns.Prefix + "." + shortName
}

// Packages returns the short names of every extension package in the
// namespace, in directory listing order. Plain files and directories without
// a manifest are skipped. A missing namespace directory has no packages.
func (ns *Namespace) Packages() ([]string, error) {
	entries, err := os.ReadDir(ns.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading namespace %s: %w", ns.Dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !ns.isDir(entry) {
			continue
		}
		marker := filepath.Join(ns.Path(entry.Name()), manifest.FileName)
		if info, err := os.Stat(marker); err != nil || info.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// isDir reports whether entry is a directory, following a symlink to its
// target.
func (ns *Namespace) isDir(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(ns.Path(entry.Name()))
	return err == nil && info.IsDir()
}

// List imports every package in the namespace. The order follows the
// directory listing and callers must not rely on it. A single package that
// fails to import aborts the whole call; no partial result is returned.
func (ns *Namespace) List(ctx context.Context) ([]*Record, error) {
	names, err := ns.Packages()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := ns.importRecord(name)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	logging.Debug().
		Add(logging.Component("discovery")).
		Add(logging.Str("namespace", ns.Prefix)).
		Add(logging.Count(len(records))).
		Msg("namespace scanned")

	return records, nil
}

// Get imports the package whose short name matches exactly. It returns an
// error matching ErrNotFound when the namespace has no such package.
func (ns *Namespace) Get(ctx context.Context, shortName string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := ns.Packages()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if name == shortName {
			return ns.importRecord(name)
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, shortName, ns.Prefix)
}

func (ns *Namespace) importRecord(shortName string) (*Record, error) {
	m, err := ns.importModule(shortName)
	if err != nil {
		return nil, &ImportError{Name: ns.Qualify(shortName), Err: err}
	}
	r, err := NewRecord(m)
	if err != nil {
		return nil, &ImportError{Name: m.Name, Err: err}
	}
	return r, nil
}

// importModule turns a package directory into a Module: manifest first,
// then any registered Go code on top.
func (ns *Namespace) importModule(shortName string) (*Module, error) {
	dir := ns.Path(shortName)
	mf, err := manifest.Load(filepath.Join(dir, manifest.FileName))
	if err != nil {
		return nil, err
	}
	if mf.Name != shortName {
		return nil, fmt.Errorf("manifest name %q does not match package directory %q", mf.Name, shortName)
	}

	m := &Module{
		Name:          ns.Qualify(shortName),
		ShortName:     shortName,
		Dir:           dir,
		Description:   mf.Description,
		Manifest:      mf,
		VersionString: mf.VersionString,
	}
	if v := mf.Version; v != nil {
		m.Version = NewVersion(v.Major, v.Minor, v.Patch, v.Prerelease, v.Metadata)
	}
	if b := mf.Base; b != nil {
		m.Base = &Base{
			Name:        b.Name,
			Description: b.Description,
			Link:        b.Link,
			Services:    make(map[string]Service, len(b.Services)),
		}
		for name, decl := range b.Services {
			m.Base.Services[name] = runtime.NewCommand(m.Name, name, dir, decl)
		}
	}

	c, ok := Registered(shortName)
	if !ok {
		return m, nil
	}
	if c.Version != nil {
		m.Version = c.Version
	}
	m.Setup = c.Setup
	if len(c.Services) > 0 {
		if m.Base == nil {
			m.Base = &Base{Name: shortName, Services: make(map[string]Service, len(c.Services))}
		}
		for name, svc := range c.Services {
			m.Base.Services[name] = svc
		}
	}
	return m, nil
}

// Path returns the directory of the package with the given short name.
func (ns *Namespace) Path(shortName string) string {
	return filepath.Join(ns.Dir, shortName)
}
