package event

import (
	"fmt"
	"sort"
	"sync"
)

// RestoreFunc rebuilds an event from its stored log row.
type RestoreFunc func(Record) (AuditEvent, error)

// Registry maps event names to restore functions so stored rows can be rendered.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]RestoreFunc
}

// NewRegistry creates a registry with every event of this package registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]RestoreFunc)}
	r.Register(CommentDeletedName, func(rec Record) (AuditEvent, error) {
		return RestoreCommentDeleted(rec)
	})
	return r
}

// Register adds or replaces the restore function for name.
func (r *Registry) Register(name string, fn RestoreFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Restore rebuilds the event stored in rec.
func (r *Registry) Restore(rec Record) (AuditEvent, error) {
	r.mu.RLock()
	fn, ok := r.factories[rec.EventName]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, rec.EventName)
	}
	return fn(rec)
}

// Names returns the registered event names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
