package domain

// DefaultSkillCategory is the bucket for skills whose category cannot be
// resolved from the persisted document.
const DefaultSkillCategory = "Other"

type SkillTier string

const (
	TierBeginner     SkillTier = "beginner"
	TierIntermediate SkillTier = "intermediate"
	TierProfessional SkillTier = "professional"
)

// Tier buckets the numeric level into exactly three tiers with inclusive
// lower bounds: <70 beginner, 70-84 intermediate, >=85 professional.
func (s Skill) Tier() SkillTier {
	switch {
	case s.Level >= 85:
		return TierProfessional
	case s.Level >= 70:
		return TierIntermediate
	default:
		return TierBeginner
	}
}

// Stars returns the 1-3 star rating shown next to a skill.
func (t SkillTier) Stars() int {
	switch t {
	case TierProfessional:
		return 3
	case TierIntermediate:
		return 2
	default:
		return 1
	}
}

// GroupSkillsByCategory groups skills for display, bucketing empty categories
// under "Other". Order within a category follows the draft order.
func GroupSkillsByCategory(skills []Skill) map[string][]Skill {
	grouped := make(map[string][]Skill)
	for _, s := range skills {
		cat := s.Category
		if cat == "" {
			cat = DefaultSkillCategory
		}
		grouped[cat] = append(grouped[cat], s)
	}
	return grouped
}
