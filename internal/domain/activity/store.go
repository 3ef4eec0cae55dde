package activity

// DefaultCapacity is the number of live activities retained in memory.
const DefaultCapacity = 100

// Store is a bounded, newest-first activity log with an unread counter.
//
// Entries live in a fixed ring: the newest sits at head and the i-th newest at
// (head+i) % cap. A full ring overwrites its oldest slot on Append.
// Store is not safe for concurrent use; the feed hub serializes access to it.
type Store struct {
	buf    []Activity
	head   int
	size   int
	unread int
}

// NewStore creates a store retaining at most capacity entries.
// A non-positive capacity selects DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{buf: make([]Activity, capacity)}
}

// Append prepends a to the log, evicting the oldest entry when full.
// Duplicate IDs are kept as separate entries.
func (s *Store) Append(a Activity) {
	capacity := len(s.buf)
	s.head = (s.head - 1 + capacity) % capacity
	if s.size == capacity {
		// The new head slot holds the oldest entry.
		if !s.buf[s.head].Read {
			s.unread--
		}
	} else {
		s.size++
	}
	s.buf[s.head] = a
	if !a.Read {
		s.unread++
	}
}

// MarkAsRead marks the first entry with the given ID as read.
// It reports whether an entry matched; a missing ID is not an error.
func (s *Store) MarkAsRead(id string) bool {
	found := false
	for i := 0; i < s.size; i++ {
		entry := &s.buf[s.index(i)]
		if entry.ID == id {
			entry.Read = true
			found = true
			break
		}
	}
	s.recount()
	return found
}

// MarkAllAsRead marks every retained entry as read.
func (s *Store) MarkAllAsRead() {
	for i := 0; i < s.size; i++ {
		s.buf[s.index(i)].Read = true
	}
	s.unread = 0
}

// All returns a copy of the log, newest first.
func (s *Store) All() []Activity {
	out := make([]Activity, 0, s.size)
	for i := 0; i < s.size; i++ {
		out = append(out, s.buf[s.index(i)])
	}
	return out
}

// Unread returns a copy of the unread entries, newest first.
func (s *Store) Unread() []Activity {
	out := make([]Activity, 0, s.unread)
	for i := 0; i < s.size; i++ {
		if entry := s.buf[s.index(i)]; !entry.Read {
			out = append(out, entry)
		}
	}
	return out
}

// UnreadCount returns the number of retained entries not yet read.
func (s *Store) UnreadCount() int {
	return s.unread
}

// Len returns the number of retained entries.
func (s *Store) Len() int {
	return s.size
}

// Cap returns the retention bound.
func (s *Store) Cap() int {
	return len(s.buf)
}

func (s *Store) index(i int) int {
	return (s.head + i) % len(s.buf)
}

func (s *Store) recount() {
	n := 0
	for i := 0; i < s.size; i++ {
		if !s.buf[s.index(i)].Read {
			n++
		}
	}
	s.unread = n
}
