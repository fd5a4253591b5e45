package scheduling

import "sort"

// AvailabilitySet holds the advertised windows of a single profile, kept
// sorted by start time and free of overlaps. Windows that touch end-to-start
// stay separate entries unless MergeTouching is called explicitly.
type AvailabilitySet struct {
	windows []TimeInterval
}

func NewAvailabilitySet(windows ...TimeInterval) (*AvailabilitySet, error) {
	s := &AvailabilitySet{}
	for _, w := range windows {
		if err := s.Add(w); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *AvailabilitySet) Add(w TimeInterval) error {
	if !w.Valid() {
		return ErrInvalidInterval
	}
	for _, existing := range s.windows {
		if existing.Overlaps(w) {
			return ErrOverlapConflict
		}
	}
	i := sort.Search(len(s.windows), func(i int) bool {
		return s.windows[i].Start.After(w.Start)
	})
	s.windows = append(s.windows, TimeInterval{})
	copy(s.windows[i+1:], s.windows[i:])
	s.windows[i] = w
	return nil
}

// Remove deletes the window exactly matching w.
func (s *AvailabilitySet) Remove(w TimeInterval) error {
	for i, existing := range s.windows {
		if existing.Equal(w) {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *AvailabilitySet) RemoveAt(i int) error {
	if i < 0 || i >= len(s.windows) {
		return ErrNotFound
	}
	s.windows = append(s.windows[:i], s.windows[i+1:]...)
	return nil
}

// IsAvailable reports whether a single window fully covers q. A query that
// straddles two adjacent windows is not available even though their union
// covers it.
func (s *AvailabilitySet) IsAvailable(q TimeInterval) bool {
	if !q.Valid() {
		return false
	}
	for _, w := range s.windows {
		if w.Start.After(q.Start) {
			break
		}
		if w.Covers(q) {
			return true
		}
	}
	return false
}

// MergeTouching coalesces back-to-back windows into single entries.
func (s *AvailabilitySet) MergeTouching() {
	if len(s.windows) < 2 {
		return
	}
	merged := []TimeInterval{s.windows[0]}
	for _, w := range s.windows[1:] {
		last := &merged[len(merged)-1]
		if last.End.Equal(w.Start) {
			last.End = w.End
			continue
		}
		merged = append(merged, w)
	}
	s.windows = merged
}

func (s *AvailabilitySet) Len() int {
	return len(s.windows)
}

// Windows returns a fresh copy of the windows, ordered by start time.
func (s *AvailabilitySet) Windows() []TimeInterval {
	out := make([]TimeInterval, len(s.windows))
	copy(out, s.windows)
	return out
}
