// Package association tracks the in-progress edit of a many-to-many
// relation.
//
// A Synchronizer holds two collections for one owner: the available
// members (every candidate, loaded once) and the assigned members (the
// owner's selection in this session). Assigned never contains duplicates.
// The persisted relation is only touched by Commit.
package association

// Synchronizer manages one relation of one owner during an edit session.
// It is not safe for concurrent use.
type Synchronizer[M any] struct {
	key       func(M) uint
	available []M
	assigned  []M
	baseline  map[uint]M
}

// New creates a synchronizer. persisted seeds the assigned set and is empty
// when the owner is new. Duplicates in persisted are dropped.
func New[M any](key func(M) uint, available, persisted []M) *Synchronizer[M] {
	s := &Synchronizer[M]{
		key:       key,
		available: append([]M(nil), available...),
		assigned:  make([]M, 0, len(persisted)),
	}
	for _, m := range persisted {
		s.Add(m)
	}
	s.resetBaseline()
	return s
}

// Available returns every candidate member, assigned or not.
func (s *Synchronizer[M]) Available() []M {
	return append([]M(nil), s.available...)
}

// Assigned returns the current selection in order of first addition.
func (s *Synchronizer[M]) Assigned() []M {
	return append([]M(nil), s.assigned...)
}

// Contains reports whether the member with the given id is assigned.
func (s *Synchronizer[M]) Contains(id uint) bool {
	return s.indexOf(id) >= 0
}

// Add appends m to the assigned set unless it is already there.
// It reports whether the set changed.
func (s *Synchronizer[M]) Add(m M) bool {
	if s.Contains(s.key(m)) {
		return false
	}
	s.assigned = append(s.assigned, m)
	return true
}

// Remove drops m from the assigned set. It reports whether the set changed.
func (s *Synchronizer[M]) Remove(m M) bool {
	return s.RemoveByID(s.key(m))
}

// AddByID assigns the available member with the given id. Unknown ids are
// ignored.
func (s *Synchronizer[M]) AddByID(id uint) bool {
	for _, m := range s.available {
		if s.key(m) == id {
			return s.Add(m)
		}
	}
	return false
}

// RemoveByID unassigns the member with the given id.
func (s *Synchronizer[M]) RemoveByID(id uint) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.assigned = append(s.assigned[:i], s.assigned[i+1:]...)
	return true
}

// Selected projects the assigned set onto the available list: each
// available member id maps to whether it is currently assigned.
func (s *Synchronizer[M]) Selected() map[uint]bool {
	selected := make(map[uint]bool, len(s.available))
	for _, m := range s.available {
		selected[s.key(m)] = false
	}
	for _, m := range s.assigned {
		selected[s.key(m)] = true
	}
	return selected
}

// Changes returns the members added and removed since the session was
// opened or last committed.
func (s *Synchronizer[M]) Changes() (added, removed []M) {
	current := make(map[uint]bool, len(s.assigned))
	for _, m := range s.assigned {
		id := s.key(m)
		current[id] = true
		if _, ok := s.baseline[id]; !ok {
			added = append(added, m)
		}
	}
	for id, m := range s.baseline {
		if !current[id] {
			removed = append(removed, m)
		}
	}
	return added, removed
}

// Commit hands a copy of the assigned set to save, which must replace the
// owner's persisted membership atomically. The assigned set is left as is
// whether or not save succeeds, so a failed save can be retried.
func (s *Synchronizer[M]) Commit(save func(members []M) error) error {
	if err := save(s.Assigned()); err != nil {
		return err
	}
	s.resetBaseline()
	return nil
}

func (s *Synchronizer[M]) indexOf(id uint) int {
	for i, m := range s.assigned {
		if s.key(m) == id {
			return i
		}
	}
	return -1
}

func (s *Synchronizer[M]) resetBaseline() {
	s.baseline = make(map[uint]M, len(s.assigned))
	for _, m := range s.assigned {
		s.baseline[s.key(m)] = m
	}
}
