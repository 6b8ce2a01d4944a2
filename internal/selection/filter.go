package selection

import "go-portfolio-backend/internal/domain"

// Apply keeps only the selected items of each staged collection, preserving
// original order. Collections with no entry in the state pass through
// unchanged; profile fields are never filtered. Called exactly once per
// import session, at confirmation time.
func Apply(data domain.ResumeData, state State) domain.ResumeData {
	out := data
	out.WorkExperience = filterSlice(data.WorkExperience, state, CollectionWorkExperience)
	out.Projects = filterSlice(data.Projects, state, CollectionProjects)
	out.Skills = filterSlice(data.Skills, state, CollectionSkills)
	out.Certifications = filterSlice(data.Certifications, state, CollectionCertifications)
	out.Achievements = filterSlice(data.Achievements, state, CollectionAchievements)
	return out
}

func filterSlice[T any](items []T, state State, c Collection) []T {
	set, ok := state[c]
	if !ok {
		return items
	}
	kept := make([]T, 0, len(set))
	for i, item := range items {
		if _, selected := set[i]; selected {
			kept = append(kept, item)
		}
	}
	return kept
}
