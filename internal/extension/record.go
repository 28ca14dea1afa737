package extension

import (
	"errors"
	"fmt"
	"strings"
)

// Record wraps an imported extension with the metadata discovery exposes.
type Record struct {
	Module  *Module
	Name    string   // fully-qualified name, unique within a process
	Version *Version // nil when the extension declares no version
	Base    *Base    // nil when the extension declares no base
}

// NewRecord wraps an imported module. The version comes from the structured
// Version if present, otherwise from parsing VersionString.
func NewRecord(m *Module) (*Record, error) {
	if m == nil || m.Name == "" {
		return nil, errors.New("extension record requires a named module")
	}

	r := &Record{
		Module: m,
		Name:   m.Name,
		Base:   m.Base,
	}

	switch {
	case m.Version != nil:
		r.Version = m.Version
	case m.VersionString != "":
		v, err := ParseVersion(m.VersionString)
		if err != nil {
			return nil, fmt.Errorf("version_string of %s: %w", m.Name, err)
		}
		r.Version = v
	}

	return r, nil
}

// ShortName returns the last dotted segment of the record's name.
func (r *Record) ShortName() string {
	if r.Module != nil && r.Module.ShortName != "" {
		return r.Module.ShortName
	}
	if i := strings.LastIndex(r.Name, "."); i >= 0 {
		return r.Name[i+1:]
	}
	return r.Name
}

// HasSetup reports whether the extension defines a setup hook.
func (r *Record) HasSetup() bool {
	return r.Module != nil && r.Module.Setup != nil
}

func (r *Record) String() string {
	if r.Version == nil {
		return r.Name
	}
	return r.Name + "@" + r.Version.String()
}
