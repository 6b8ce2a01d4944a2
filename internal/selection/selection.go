// Package selection tracks which staged import items the user wants to keep.
// A State maps each importable collection to the set of selected indices;
// all operations are copy-on-write so concurrent readers always observe a
// consistent snapshot.
//
// Indices refer to positions in the current staged arrays. If a staged array
// is edited or reordered the caller must rebuild the state before the next
// toggle - item identity is not tracked here.
package selection

// Collection names the importable sections of a staged resume.
type Collection string

const (
	CollectionWorkExperience Collection = "work_experience"
	CollectionProjects       Collection = "projects"
	CollectionSkills         Collection = "skills"
	CollectionCertifications Collection = "certifications"
	CollectionAchievements   Collection = "achievements"
)

// Collections lists every importable collection in display order.
var Collections = []Collection{
	CollectionWorkExperience,
	CollectionProjects,
	CollectionSkills,
	CollectionCertifications,
	CollectionAchievements,
}

type indexSet map[int]struct{}

// State holds the selected indices per collection.
type State map[Collection]indexSet

// Initialize returns a State with every index selected - an import defaults
// to "take everything".
func Initialize(lengths map[Collection]int) State {
	s := make(State, len(lengths))
	for c, n := range lengths {
		set := make(indexSet, n)
		for i := 0; i < n; i++ {
			set[i] = struct{}{}
		}
		s[c] = set
	}
	return s
}

// Toggle flips the selection of a single index and returns a new State.
func (s State) Toggle(c Collection, index int) State {
	out := s.clone()
	set, ok := out[c]
	if !ok {
		set = indexSet{}
		out[c] = set
	}
	if _, selected := set[index]; selected {
		delete(set, index)
	} else {
		set[index] = struct{}{}
	}
	return out
}

// SelectAll selects every index in [0, length) and returns a new State.
func (s State) SelectAll(c Collection, length int) State {
	out := s.clone()
	set := make(indexSet, length)
	for i := 0; i < length; i++ {
		set[i] = struct{}{}
	}
	out[c] = set
	return out
}

// DeselectAll clears the collection's selection and returns a new State.
func (s State) DeselectAll(c Collection) State {
	out := s.clone()
	out[c] = indexSet{}
	return out
}

// Selected reports whether the index is currently selected.
func (s State) Selected(c Collection, index int) bool {
	set, ok := s[c]
	if !ok {
		return false
	}
	_, selected := set[index]
	return selected
}

// Count returns how many items are selected in the collection.
func (s State) Count(c Collection) int {
	return len(s[c])
}

func (s State) clone() State {
	out := make(State, len(s))
	for c, set := range s {
		copied := make(indexSet, len(set))
		for i := range set {
			copied[i] = struct{}{}
		}
		out[c] = copied
	}
	return out
}
