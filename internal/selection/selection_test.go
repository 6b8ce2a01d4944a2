package selection_test

import (
	"testing"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSelectsEverything(t *testing.T) {
	s := selection.Initialize(map[selection.Collection]int{
		selection.CollectionProjects: 5,
		selection.CollectionSkills:   2,
	})

	assert.Equal(t, 5, s.Count(selection.CollectionProjects))
	for i := 0; i < 5; i++ {
		assert.True(t, s.Selected(selection.CollectionProjects, i))
	}
	assert.Equal(t, 2, s.Count(selection.CollectionSkills))
	assert.Equal(t, 0, s.Count(selection.CollectionAchievements))
}

func TestToggleIsCopyOnWrite(t *testing.T) {
	s := selection.Initialize(map[selection.Collection]int{
		selection.CollectionProjects: 3,
	})

	toggled := s.Toggle(selection.CollectionProjects, 1)

	assert.True(t, s.Selected(selection.CollectionProjects, 1), "original state must be untouched")
	assert.False(t, toggled.Selected(selection.CollectionProjects, 1))

	again := toggled.Toggle(selection.CollectionProjects, 1)
	assert.True(t, again.Selected(selection.CollectionProjects, 1))
}

func TestSelectAllDeselectAll(t *testing.T) {
	s := selection.Initialize(map[selection.Collection]int{
		selection.CollectionSkills: 4,
	})

	cleared := s.DeselectAll(selection.CollectionSkills)
	assert.Equal(t, 0, cleared.Count(selection.CollectionSkills))
	assert.Equal(t, 4, s.Count(selection.CollectionSkills))

	refilled := cleared.SelectAll(selection.CollectionSkills, 4)
	assert.Equal(t, 4, refilled.Count(selection.CollectionSkills))
}

func TestApplyFiltersSelectedInOrder(t *testing.T) {
	data := domain.ResumeData{
		Projects: []domain.ResumeProject{
			{Title: "p0"}, {Title: "p1"}, {Title: "p2"}, {Title: "p3"}, {Title: "p4"},
		},
		Skills: []domain.ResumeSkill{{Name: "Go"}},
	}

	s := selection.Initialize(map[selection.Collection]int{
		selection.CollectionProjects: 5,
	})
	s = s.Toggle(selection.CollectionProjects, 2)

	filtered := selection.Apply(data, s)

	require.Len(t, filtered.Projects, 4)
	assert.Equal(t, "p0", filtered.Projects[0].Title)
	assert.Equal(t, "p1", filtered.Projects[1].Title)
	assert.Equal(t, "p3", filtered.Projects[2].Title)
	assert.Equal(t, "p4", filtered.Projects[3].Title)

	// skills had no selection entry and pass through unchanged
	assert.Equal(t, data.Skills, filtered.Skills)
}

func TestApplyIsIdempotent(t *testing.T) {
	data := domain.ResumeData{
		Achievements: []domain.ResumeAchievement{
			{Title: "a"}, {Title: "b"}, {Title: "c"},
		},
	}
	s := selection.Initialize(map[selection.Collection]int{
		selection.CollectionAchievements: 3,
	})
	s = s.Toggle(selection.CollectionAchievements, 2)

	once := selection.Apply(data, s)
	twice := selection.Apply(once, s)
	assert.Equal(t, once, twice)
}

func TestApplyDeselectAllDropsEverything(t *testing.T) {
	data := domain.ResumeData{
		Certifications: []domain.ResumeCertification{{Name: "x"}, {Name: "y"}},
	}
	s := selection.Initialize(map[selection.Collection]int{
		selection.CollectionCertifications: 2,
	})
	s = s.DeselectAll(selection.CollectionCertifications)

	filtered := selection.Apply(data, s)
	assert.Empty(t, filtered.Certifications)
}
