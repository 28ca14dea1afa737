package toolbox

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/interactions-toolbox/toolbox/internal/extension"
	"github.com/interactions-toolbox/toolbox/internal/logging"
)

// Loader imports extensions by short name. *extension.Namespace satisfies it.
type Loader interface {
	Get(ctx context.Context, shortName string) (*extension.Record, error)
}

// Tools is a registry of services pulled from extensions and bound to a host
// client. It is safe for concurrent use. Setup hooks run with the registry
// locked and must not call back into it.
type Tools struct {
	mu         sync.Mutex
	id         string
	client     extension.Client
	loader     Loader
	extensions map[string]*extension.Record
	trackers   map[string]*tracker
	tools      map[string]extension.Service
}

// Option configures a Tools registry.
type Option func(*Tools)

// WithID overrides the generated registry id used in logs.
func WithID(id string) Option {
	return func(t *Tools) { t.id = id }
}

// New returns an empty registry bound to client.
func New(client extension.Client, loader Loader, opts ...Option) *Tools {
	t := &Tools{
		id:         uuid.NewString(),
		client:     client,
		loader:     loader,
		extensions: make(map[string]*extension.Record),
		trackers:   make(map[string]*tracker),
		tools:      make(map[string]extension.Service),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID identifies this registry in logs.
func (t *Tools) ID() string { return t.id }

// Client returns the host client the registry was built with.
func (t *Tools) Client() extension.Client { return t.client }

// Add registers the service called tool from extension ext and returns it.
// The extension is resolved first if needed. Add fails without changing the
// registry when tool is already registered or ext has no such service.
func (t *Tools) Add(ctx context.Context, tool, ext string) (extension.Service, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, dup := t.tools[tool]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTool, tool)
	}

	record, err := t.resolve(ctx, ext)
	if err != nil {
		return nil, err
	}

	svc, ok := record.Base.Service(tool)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrServiceNotFound, tool, record.Name)
	}
	t.tools[tool] = svc

	logging.Debug().
		Add(logging.Registry(t.id)).
		Add(logging.ToolName(tool)).
		Add(logging.Extension(record.Name)).
		Msg("tool added")

	return svc, nil
}

// Tool returns the registered service called name.
func (t *Tools) Tool(name string) (extension.Service, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	svc, ok := t.tools[name]
	return svc, ok
}

// MustTool is like Tool but panics when name is not registered.
func (t *Tools) MustTool(name string) extension.Service {
	svc, ok := t.Tool(name)
	if !ok {
		panic(fmt.Sprintf("toolbox: %v: %q", ErrToolNotFound, name))
	}
	return svc
}

// ToolAs returns the service called name as a T.
func ToolAs[T any](t *Tools, name string) (T, error) {
	var zero T
	svc, ok := t.Tool(name)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("tool %q is %T, not %T", name, svc, zero)
	}
	return typed, nil
}

// Extension resolves an extension by short name. The first successful call
// imports it and runs its setup hook with the registry's client; later calls
// return the memoized record. A failing setup leaves the extension
// unresolved so the next call tries again.
func (t *Tools) Extension(ctx context.Context, shortName string) (*extension.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolve(ctx, shortName)
}

// resolve is Extension with t.mu held.
func (t *Tools) resolve(ctx context.Context, shortName string) (*extension.Record, error) {
	if r, ok := t.extensions[shortName]; ok {
		return r, nil
	}

	record, err := t.loader.Get(ctx, shortName)
	if err != nil {
		return nil, err
	}

	tr, ok := t.trackers[shortName]
	if !ok {
		tr, err = newTracker(record.Name)
		if err != nil {
			return nil, fmt.Errorf("tracking %s: %w", record.Name, err)
		}
		t.trackers[shortName] = tr
	}

	if record.HasSetup() {
		if err := record.Module.Setup(ctx, t.client); err != nil {
			tr.fail(err)
			logging.Warn().
				Add(logging.Registry(t.id)).
				Add(logging.Extension(record.Name)).
				Add(logging.ErrorField(err)).
				Msg("extension setup failed")
			return nil, fmt.Errorf("%w: %s: %w", ErrSetup, record.Name, err)
		}
	}
	tr.resolve()
	t.extensions[shortName] = record

	logging.Debug().
		Add(logging.Registry(t.id)).
		Add(logging.Extension(record.Name)).
		Msg("extension resolved")

	return record, nil
}

// Names returns the registered tool names, sorted.
func (t *Tools) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.tools))
	for name := range t.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Extensions returns the resolved extensions, sorted by short name.
func (t *Tools) Extensions() []*extension.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.extensions))
	for name := range t.extensions {
		names = append(names, name)
	}
	slices.Sort(names)
	records := make([]*extension.Record, 0, len(names))
	for _, name := range names {
		records = append(records, t.extensions[name])
	}
	return records
}

// State reports the lifecycle state of an extension in this registry:
// "resolved", "unresolved" after a failed setup, or "" when never seen.
func (t *Tools) State(shortName string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tr, ok := t.trackers[shortName]; ok {
		return tr.stateName()
	}
	return ""
}

// SetupFailures returns how many times the extension's setup hook failed.
func (t *Tools) SetupFailures(shortName string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tr, ok := t.trackers[shortName]; ok {
		return tr.state.Failures
	}
	return 0
}
