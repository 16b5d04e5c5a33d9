package state

// Selection refers to elements by id, never by pointer, so removing an
// element cannot leave a dangling reference behind. Either single or
// multi is in use, not both.
type Selection struct {
	single string
	multi  map[string]struct{}
}

func (s *Selection) Clear() {
	s.single = ""
	s.multi = nil
}

func (s *Selection) SetSingle(id string) {
	s.Clear()
	s.single = id
}

func (s *Selection) SetMulti(ids []string) {
	s.Clear()
	if len(ids) == 0 {
		return
	}
	s.multi = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.multi[id] = struct{}{}
	}
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool {
	return s.single == "" && len(s.multi) == 0
}

// Single returns the single selected id, if any.
func (s *Selection) Single() (string, bool) {
	return s.single, s.single != ""
}

// InMulti reports whether id is part of the multi-selection.
func (s *Selection) InMulti(id string) bool {
	_, ok := s.multi[id]
	return ok
}

// Has reports whether id is selected in either mode.
func (s *Selection) Has(id string) bool {
	return id != "" && (s.single == id || s.InMulti(id))
}

func (s *Selection) Len() int {
	if s.single != "" {
		return 1
	}
	return len(s.multi)
}

// prune drops ids for which live returns false.
func (s *Selection) prune(live func(id string) bool) {
	if s.single != "" && !live(s.single) {
		s.single = ""
	}
	for id := range s.multi {
		if !live(id) {
			delete(s.multi, id)
		}
	}
}
