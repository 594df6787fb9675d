// SPDX-License-Identifier: Apache-2.0

package pattern

import "sync"

// Store holds the patterns loaded from a directory and supports
// atomic reloads while readers keep generating.
type Store struct {
	mu       sync.RWMutex
	dir      string
	patterns []*Pattern
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Reload re-reads the pattern directory. On error the previously
// loaded set stays in place.
func (s *Store) Reload() error {
	patterns, err := LoadDir(s.dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.patterns = patterns
	s.mu.Unlock()
	return nil
}

// List returns the loaded patterns. The slice is a copy; the patterns
// themselves are treated as read-only after load.
func (s *Store) List() []*Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}
