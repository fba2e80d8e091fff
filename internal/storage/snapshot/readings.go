package snapshot

import (
	"maps"
	"slices"

	"sysmon-agent/internal/sampler"
)

// ReadingStore keeps the latest reading of every monitor, keyed by name.
type ReadingStore struct {
	Store[map[string]sampler.Reading]
}

func NewReadingStore() *ReadingStore {
	s := &ReadingStore{}
	s.Store.Set(map[string]sampler.Reading{})
	return s
}

// Put replaces the monitor's reading. The map is copied so readers holding a
// previous snapshot never observe the write.
func (s *ReadingStore) Put(r sampler.Reading) {
	s.Update(func(cur map[string]sampler.Reading) map[string]sampler.Reading {
		next := maps.Clone(cur)
		if next == nil {
			next = make(map[string]sampler.Reading)
		}
		next[r.Monitor] = r
		return next
	})
}

func (s *ReadingStore) Latest(name string) (sampler.Reading, bool) {
	r, ok := s.Get()[name]
	return r, ok
}

// All returns the latest readings sorted by monitor name.
func (s *ReadingStore) All() []sampler.Reading {
	m := s.Get()
	out := make([]sampler.Reading, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[name])
	}
	return out
}
