package core

import (
	"errors"
	"fmt"
	"sync"
)

// Registry is an ordered set of table descriptors. Enumeration order is
// registration order and decides detection ties.
type Registry struct {
	mu      sync.RWMutex
	entries []*TableDescriptor
	byKey   map[string]*TableDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*TableDescriptor)}
}

// Register validates d and appends it. Header-map keys and identify keywords
// are stored normalized.
func (r *Registry) Register(d TableDescriptor) error {
	if d.Key == "" {
		return errors.New("descriptor key is required")
	}
	if d.DestinationTable == "" {
		return fmt.Errorf("descriptor %s: destination table is required", d.Key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[d.Key]; exists {
		return fmt.Errorf("table already registered: %s", d.Key)
	}
	for _, e := range r.entries {
		if e.DestinationTable == d.DestinationTable {
			return fmt.Errorf("descriptor %s: destination table %s already used by %s",
				d.Key, d.DestinationTable, e.Key)
		}
	}

	stored := normalizeDescriptor(d)

	codomain := make(map[string]bool)
	for _, f := range stored.Fields() {
		codomain[f] = true
	}
	for _, fk := range stored.ForeignKeys {
		if !codomain[fk.Field] {
			return fmt.Errorf("descriptor %s: foreign key field %s is not mapped", d.Key, fk.Field)
		}
		if fk.Table == "" || fk.Column == "" || fk.Target == "" {
			return fmt.Errorf("descriptor %s: foreign key %s is incomplete", d.Key, fk.Field)
		}
	}

	r.entries = append(r.entries, stored)
	r.byKey[stored.Key] = stored
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(d TableDescriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Get returns a descriptor by key.
func (r *Registry) Get(key string) (*TableDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[key]
	return d, ok
}

// All returns the descriptors in registration order.
func (r *Registry) All() []*TableDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*TableDescriptor, len(r.entries))
	copy(out, r.entries)
	return out
}

// Keys returns descriptor keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Key
	}
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// exampleHeaderCount caps SupportedTable.ExampleHeaders.
const exampleHeaderCount = 10

// SupportedTable is the public description of one importable table.
type SupportedTable struct {
	Key              string   `json:"key"`
	TableName        string   `json:"tableName"`
	IdentifyColumns  []string `json:"identifyColumns"`
	RequiredColumns  []string `json:"requiredColumns"`
	ExampleHeaders   []string `json:"exampleHeaders"`
	ForeignKeyFields []string `json:"lookupFields,omitempty"`
}

// Supported lists every descriptor in registry order.
func (r *Registry) Supported() []SupportedTable {
	all := r.All()
	out := make([]SupportedTable, 0, len(all))
	for _, d := range all {
		n := len(d.HeaderMap)
		if n > exampleHeaderCount {
			n = exampleHeaderCount
		}
		examples := make([]string, n)
		for i := 0; i < n; i++ {
			examples[i] = d.HeaderMap[i].Header
		}
		var fks []string
		for _, fk := range d.ForeignKeys {
			fks = append(fks, fk.Field)
		}
		out = append(out, SupportedTable{
			Key:              d.Key,
			TableName:        d.DestinationTable,
			IdentifyColumns:  append([]string(nil), d.IdentifyKeywords...),
			RequiredColumns:  append([]string(nil), d.RequiredFields...),
			ExampleHeaders:   examples,
			ForeignKeyFields: fks,
		})
	}
	return out
}

func normalizeDescriptor(d TableDescriptor) *TableDescriptor {
	out := d

	out.IdentifyKeywords = make([]string, 0, len(d.IdentifyKeywords))
	for _, k := range d.IdentifyKeywords {
		if k = NormalizeHeader(k); k != "" {
			out.IdentifyKeywords = append(out.IdentifyKeywords, k)
		}
	}

	seen := make(map[string]bool, len(d.HeaderMap))
	out.HeaderMap = make([]HeaderMapping, 0, len(d.HeaderMap))
	for _, m := range d.HeaderMap {
		h := NormalizeHeader(m.Header)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out.HeaderMap = append(out.HeaderMap, HeaderMapping{Header: h, Field: m.Field})
	}

	out.RequiredFields = append([]string(nil), d.RequiredFields...)
	out.ForeignKeys = append([]ForeignKey(nil), d.ForeignKeys...)
	return &out
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry populated by init functions.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a descriptor to the default registry.
// Panics if the descriptor is invalid or its key is already registered.
func Register(d TableDescriptor) {
	defaultRegistry.MustRegister(d)
}

// Get returns a descriptor from the default registry.
func Get(key string) (*TableDescriptor, bool) {
	return defaultRegistry.Get(key)
}

// All returns the default registry's descriptors in registration order.
func All() []*TableDescriptor {
	return defaultRegistry.All()
}
