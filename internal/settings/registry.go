package settings

import (
	"log/slog"
	"maps"
	"slices"
)

// ConfigurationProvider resolves the record for a widget uuid.
type ConfigurationProvider interface {
	Lookup(uuid string) (Record, bool)
}

// ProviderFunc adapts a function to ConfigurationProvider.
type ProviderFunc func(uuid string) (Record, bool)

// Lookup calls f.
func (f ProviderFunc) Lookup(uuid string) (Record, bool) {
	return f(uuid)
}

// Registry maps widget uuids to records. The zero value is an empty registry.
// A Registry is not safe for concurrent mutation.
type Registry struct {
	records map[string]Record
}

// NewRegistry returns a registry holding a copy of records.
func NewRegistry(records map[string]Record) *Registry {
	r := &Registry{records: make(map[string]Record, len(records))}
	maps.Copy(r.records, records)
	return r
}

// Lookup returns the record stored for uuid.
func (r *Registry) Lookup(uuid string) (Record, bool) {
	if r == nil {
		return Record{}, false
	}
	rec, ok := r.records[uuid]
	return rec, ok
}

// Set stores rec under uuid.
func (r *Registry) Set(uuid string, rec Record) {
	if r.records == nil {
		r.records = make(map[string]Record)
	}
	r.records[uuid] = rec
}

// Delete removes uuid. Missing uuids are ignored.
func (r *Registry) Delete(uuid string) {
	delete(r.records, uuid)
}

// Len returns the number of records.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// UUIDs returns the registered uuids in sorted order.
func (r *Registry) UUIDs() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.records))
}

// Merge copies every record of other into r, overwriting on conflict.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for uuid, rec := range other.records {
		r.Set(uuid, rec)
	}
}

// Records returns a copy of the underlying map.
func (r *Registry) Records() map[string]Record {
	out := make(map[string]Record, r.Len())
	if r != nil {
		maps.Copy(out, r.records)
	}
	return out
}

// Resolve looks uuid up through p and applies defaults. A missing record is
// not an error: the widget behaves as a single-choice field with nothing
// selected.
func Resolve(p ConfigurationProvider, uuid string) (Record, bool) {
	if p == nil {
		slog.Debug("settings: no provider, using defaults", "uuid", uuid)
		return Defaults, false
	}
	rec, ok := p.Lookup(uuid)
	if !ok {
		slog.Debug("settings: no record, using defaults", "uuid", uuid)
		return Defaults, false
	}
	return rec.Normalize(), true
}
