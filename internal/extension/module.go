package extension

import (
	"context"
	"slices"
	"sync"

	"github.com/interactions-toolbox/toolbox/internal/manifest"
)

// Client is the host framework client handed to setup hooks. Its shape is
// owned by the host; this package never inspects it.
type Client any

// Service is an object an extension exposes through its base. Services
// declared in a manifest are *runtime.Command values; services registered
// from Go can be anything.
type Service any

// SetupFunc is an extension's setup hook. It may be called more than once
// across processes, so implementations should be idempotent.
type SetupFunc func(ctx context.Context, client Client) error

// Base aggregates the services an extension exposes.
type Base struct {
	Name        string
	Description string
	Link        string
	Services    map[string]Service
}

// Service returns the named service. Nil bases and nil services report
// false.
func (b *Base) Service(name string) (Service, bool) {
	if b == nil {
		return nil, false
	}
	svc, ok := b.Services[name]
	if !ok || svc == nil {
		return nil, false
	}
	return svc, true
}

// ServiceNames returns the declared service names in sorted order.
func (b *Base) ServiceNames() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.Services))
	for name := range b.Services {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Module is an imported extension package.
type Module struct {
	Name          string // fully-qualified, e.g. "interactions.ext.sample"
	ShortName     string
	Dir           string
	Description   string
	Manifest      *manifest.ExtensionManifest
	Version       *Version
	VersionString string
	Base          *Base
	Setup         SetupFunc
}

// Code is the Go half of an extension compiled into the binary. It is
// attached to the namespace package with the same short name at import.
type Code struct {
	// Version overrides the manifest's structured version when set.
	Version *Version

	// Setup runs once per tool registry when the extension is first used.
	Setup SetupFunc

	// Services are merged into the base; they win over manifest services
	// with the same name.
	Services map[string]Service
}

var (
	codeMu sync.RWMutex
	code   = make(map[string]Code)
)

// Register makes Go code available for the extension package with the given
// short name. It panics if called twice for the same name or with an empty
// name, like sql.Register.
func Register(shortName string, c Code) {
	codeMu.Lock()
	defer codeMu.Unlock()
	if shortName == "" {
		panic("extension: Register with empty name")
	}
	if _, dup := code[shortName]; dup {
		panic("extension: Register called twice for " + shortName)
	}
	code[shortName] = c
}

// Registered returns the Go code registered under shortName.
func Registered(shortName string) (Code, bool) {
	codeMu.RLock()
	defer codeMu.RUnlock()
	c, ok := code[shortName]
	return c, ok
}

// RegisteredNames returns the short names with registered Go code, sorted.
func RegisteredNames() []string {
	codeMu.RLock()
	defer codeMu.RUnlock()
	names := make([]string, 0, len(code))
	for name := range code {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// unregister drops registered code. Tests only.
func unregister(shortName string) {
	codeMu.Lock()
	defer codeMu.Unlock()
	delete(code, shortName)
}
