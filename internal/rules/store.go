package rules

import (
	"sync"
)

// Store is the mutable per-pair rule set: target-field renames and ignored
// target fields. Rules accumulate; a same-key write overwrites (last write
// wins). Every mutation reports the touched pair through the OnChange hook
// so the owning mapper can drop that pair's cached routine.
type Store struct {
	mu       sync.RWMutex
	renames  map[Pair]map[string]string // target field -> source field
	ignored  map[Pair]map[string]struct{}
	onChange func(Pair)
}

// NewStore creates an empty rule store.
func NewStore() *Store {
	return &Store{
		renames: make(map[Pair]map[string]string),
		ignored: make(map[Pair]map[string]struct{}),
	}
}

// OnChange installs the invalidation hook. The hook runs synchronously after
// each mutation, outside the store's lock.
func (s *Store) OnChange(fn func(Pair)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetRename records that targetField pulls its value from sourceField when
// mapping this pair, overriding same-name matching.
func (s *Store) SetRename(p Pair, targetField, sourceField string) {
	s.mu.Lock()

	if s.renames[p] == nil {
		s.renames[p] = make(map[string]string)
	}

	s.renames[p][targetField] = sourceField
	fn := s.onChange

	s.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}

// SetIgnored marks targetField to be skipped entirely when mapping this pair.
func (s *Store) SetIgnored(p Pair, targetField string) {
	s.mu.Lock()

	if s.ignored[p] == nil {
		s.ignored[p] = make(map[string]struct{})
	}

	s.ignored[p][targetField] = struct{}{}
	fn := s.onChange

	s.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}

// RenameFor returns the configured source field for targetField, if any.
func (s *Store) RenameFor(p Pair, targetField string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.renames[p][targetField]

	return src, ok
}

// IsIgnored reports whether targetField is ignored for this pair. An ignored
// field is never assigned, even when a rename rule also targets it.
func (s *Store) IsIgnored(p Pair, targetField string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ignored[p][targetField]

	return ok
}
