package delivery

// Store holds the latest delivery snapshot. Each Replace supersedes the
// previous snapshot entirely.
type Store struct {
	items []DeliveryInProgress
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace overwrites the held snapshot with a copy of ds.
func (s *Store) Replace(ds []DeliveryInProgress) {
	s.items = append(make([]DeliveryInProgress, 0, len(ds)), ds...)
}

// List returns a copy of the current snapshot.
func (s *Store) List() []DeliveryInProgress {
	return append(make([]DeliveryInProgress, 0, len(s.items)), s.items...)
}

// Len returns the number of deliveries in the snapshot.
func (s *Store) Len() int {
	return len(s.items)
}
