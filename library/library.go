package library

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/classkit/classkit/runtime"
	"github.com/classkit/classkit/schema"
)

// Library is a concurrency-safe cache of compiled class schemas, keyed by
// class identity. Generation and compilation run once per class; subsequent
// lookups are read-locked map hits.
type Library struct {
	host runtime.Host
	gen  *schema.Generator

	mu      sync.RWMutex
	schemas map[string]*CompiledSchema
}

// New returns an empty library over the given host. Generator options apply
// to every schema the library compiles.
func New(host runtime.Host, opts ...schema.GeneratorOption) *Library {
	return &Library{
		host:    host,
		gen:     schema.NewGenerator(host, opts...),
		schemas: make(map[string]*CompiledSchema),
	}
}

// ClassSchema resolves a class name through the host and returns its
// compiled schema.
func (l *Library) ClassSchema(ctx context.Context, name string) (*CompiledSchema, error) {
	source, err := l.host.LookupClass(name)
	if err != nil {
		return nil, fmt.Errorf("looking up class %q: %w", name, err)
	}
	return l.SchemaFor(ctx, source)
}

// SchemaFor returns the compiled schema of a class, generating and compiling
// it on first use.
func (l *Library) SchemaFor(ctx context.Context, source runtime.ClassSource) (*CompiledSchema, error) {
	key := source.ID()

	l.mu.RLock()
	compiled, ok := l.schemas[key]
	l.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	logger := slogcontext.FromCtx(ctx).With(slog.String("class", key))
	logger.DebugContext(ctx, "compiling class schema")

	root, err := schema.GenerateClass(l.gen, source)
	if err != nil {
		logger.DebugContext(ctx, "schema generation failed", slog.String("error", err.Error()))
		return nil, err
	}
	compiled, err = Compile(l.host, root)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Another goroutine may have compiled the same class while this one was
	// generating; the first stored entry wins so callers share one validator.
	if existing, ok := l.schemas[key]; ok {
		return existing, nil
	}
	l.schemas[key] = compiled
	logger.DebugContext(ctx, "class schema cached", slog.Int("documentBytes", len(compiled.Document)))
	return compiled, nil
}

// TypeSchema compiles the schema of a single property descriptor. Type
// schemas are not cached; descriptors have no stable identity to key on.
func (l *Library) TypeSchema(ctx context.Context, p runtime.PropertyInfo) (*CompiledSchema, error) {
	logger := slogcontext.FromCtx(ctx).With(slog.String("kind", p.Kind.String()))
	logger.DebugContext(ctx, "compiling type schema")

	root, err := schema.GenerateType(l.gen, p)
	if err != nil {
		return nil, err
	}
	return Compile(l.host, root)
}

// Lookup returns the cached schema for a class identity without compiling.
func (l *Library) Lookup(id string) (*CompiledSchema, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	compiled, ok := l.schemas[id]
	return compiled, ok
}

// Evict drops the cached schema for a class identity, forcing regeneration
// on next use. Hosts that reload scripts call this when a class changes.
func (l *Library) Evict(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.schemas, id)
}
