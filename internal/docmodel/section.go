package docmodel

// SectionTracker holds the currently active section of an assembly run.
type SectionTracker struct {
	current string
	set     bool
}

func NewSectionTracker() *SectionTracker {
	return &SectionTracker{}
}

// Transition reports whether section starts a new group. It returns true
// exactly once per change to a new explicit value and false when the
// section is absent or unchanged.
func (t *SectionTracker) Transition(section string, ok bool) bool {
	if !ok {
		return false
	}
	if t.set && t.current == section {
		return false
	}
	t.current, t.set = section, true
	return true
}

// Current is the active section, if any explicit section has been seen.
func (t *SectionTracker) Current() (string, bool) {
	return t.current, t.set
}
