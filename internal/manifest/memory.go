package manifest

// MemoryStore keeps manifests in memory, keyed by root. Use in tests.
type MemoryStore struct {
	manifests map[string]*Manifest
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{manifests: make(map[string]*Manifest)}
}

// Load returns a copy of the stored manifest, or nil if none was saved.
func (s *MemoryStore) Load(root string) (*Manifest, error) {
	m, ok := s.manifests[root]
	if !ok {
		return nil, nil
	}
	return m.Clone(), nil
}

// Save stores a copy of the manifest so later caller mutations don't leak in.
func (s *MemoryStore) Save(root string, m *Manifest) error {
	s.manifests[root] = m.Clone()
	return nil
}

// Compile-time check that MemoryStore implements the Store interface
var _ Store = (*MemoryStore)(nil)
