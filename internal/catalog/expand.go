package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ExpandSet holds the ids of expanded tree nodes. Absent ids are collapsed.
type ExpandSet map[string]struct{}

// IsExpanded reports whether id is expanded. Safe on a nil set.
func (s ExpandSet) IsExpanded(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips id and returns its new state.
func (s ExpandSet) Toggle(id string) bool {
	if s.IsExpanded(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Encode serialises the set for a cookie value.
func (s ExpandSet) Encode() string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ".")
}

// DecodeExpandSet parses a cookie value produced by Encode. Segments that are
// not UUIDs are dropped.
func DecodeExpandSet(v string) ExpandSet {
	s := ExpandSet{}
	for _, id := range strings.Split(v, ".") {
		if _, err := uuid.Parse(id); err == nil {
			s[id] = struct{}{}
		}
	}
	return s
}
