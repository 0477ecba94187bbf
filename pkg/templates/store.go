package templates

import (
	"sort"
	"strings"
	"sync"
)

// Store resolves a template identifier to its Template. Identifiers are
// case-insensitive.
type Store interface {
	Lookup(name string) (Template, bool)
	Names() []string
}

// NormalizeName is the canonical form under which templates are stored:
// lower case, surrounding whitespace removed.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// InMemoryStore is a thread-safe Store implementation.
type InMemoryStore struct {
	mu        sync.RWMutex
	templates map[string]Template
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		templates: map[string]Template{},
	}
}

// NewInMemoryStoreFromMap copies m into a new store, normalizing the keys.
func NewInMemoryStoreFromMap(m map[string]Template) *InMemoryStore {
	s := NewInMemoryStore()
	for name, tpl := range m {
		s.Put(name, tpl)
	}
	return s
}

func (s *InMemoryStore) Put(name string, tpl Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[NormalizeName(name)] = tpl
}

func (s *InMemoryStore) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := NormalizeName(name)
	if _, ok := s.templates[key]; !ok {
		return false
	}
	delete(s.templates, key)
	return true
}

func (s *InMemoryStore) Lookup(name string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[NormalizeName(name)]
	return tpl, ok
}

func (s *InMemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

// Merge copies every template of other into s, overriding existing entries.
func (s *InMemoryStore) Merge(other Store) {
	if other == nil {
		return
	}
	for _, name := range other.Names() {
		if tpl, ok := other.Lookup(name); ok {
			s.Put(name, tpl)
		}
	}
}
