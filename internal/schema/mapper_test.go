package schema_test

import (
	"testing"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePersisted() *domain.PersistedDraft {
	return &domain.PersistedDraft{
		Profile: &domain.PersistedProfile{
			Username: "alex",
			Name:     "Alex Chen",
			Title:    "Full Stack Developer",
			Email:    "alex@example.com",
			GitHub:   "https://github.com/alex",
		},
		Projects: []domain.PersistedProject{
			{
				ID:           "17",
				Title:        "Portfolio Builder",
				Description:  "Builds portfolios",
				Technologies: []string{"Go", "React"},
				Features:     []string{"autosave"},
				DemoURL:      "https://demo.example.com",
				GithubURL:    "https://github.com/alex/builder",
				Stars:        42,
				Featured:     true,
			},
		},
		Skills: []domain.PersistedSkill{
			{Name: "Go", Level: 90, Category: "Backend"},
		},
		WorkExperiences: []domain.PersistedWorkExperience{
			{Title: "SWE Intern", Organization: "Acme", Duration: "2023", Description: "did things"},
		},
		Awards: []domain.PersistedAward{
			{Title: "Hackathon Winner", Organization: "DevFest", Year: "2024", Category: "award"},
		},
		Certificates: []domain.PersistedCertificate{
			{Title: "AWS SAA", Issuer: "Amazon", Year: "2022", CredentialID: "ABC-123"},
		},
		Settings: &domain.PersistedSettings{ThemePreference: "modern"},
	}
}

func TestToEditingFlattens(t *testing.T) {
	draft := schema.ToEditing(samplePersisted())

	assert.Equal(t, "Alex Chen", draft.Profile.Name)
	assert.Equal(t, "modern", draft.ThemePreference)

	require.Len(t, draft.Projects, 1)
	p := draft.Projects[0]
	assert.Equal(t, "17", p.ID)
	assert.Equal(t, []string{"Go", "React"}, p.Technologies)
	assert.Equal(t, "https://github.com/alex/builder", p.RepoURL)
	assert.Equal(t, "https://demo.example.com", p.DemoURL)
	assert.Equal(t, 42, p.StarCount)

	require.Len(t, draft.Achievements, 2)
	assert.Equal(t, domain.AchievementTypeInternship, draft.Achievements[0].Type)
	assert.Equal(t, "Acme", draft.Achievements[0].Issuer)
	assert.Equal(t, "2023", draft.Achievements[0].Date)
	assert.Equal(t, "award", draft.Achievements[1].Type)
	assert.Equal(t, "DevFest", draft.Achievements[1].Issuer)
	assert.Equal(t, "2024", draft.Achievements[1].Date)

	require.Len(t, draft.Certificates, 1)
	assert.Equal(t, "2022", draft.Certificates[0].Date)
	assert.Equal(t, "ABC-123", draft.Certificates[0].CredentialID)
}

func TestToEditingLegacyAliases(t *testing.T) {
	p := &domain.PersistedDraft{
		Projects: []domain.PersistedProject{
			// technologies wins over tech when both are present
			{Title: "Both", Technologies: []string{"Go"}, Tech: []string{"PHP"}},
			{Title: "LegacyOnly", Tech: []string{"Perl"}},
		},
		Skills: []domain.PersistedSkill{
			{SkillName: "Docker", Proficiency: 65, Type: "DevOps"},
			{Name: "Mystery", Level: 50},
		},
		Awards: []domain.PersistedAward{
			{Title: "Old", Issuer: "Org", AwardedDate: "2019"},
		},
		Certificates: []domain.PersistedCertificate{
			{Name: "Cert by name", Organization: "Org", IssuedDate: "2020"},
		},
	}

	draft := schema.ToEditing(p)

	assert.Equal(t, []string{"Go"}, draft.Projects[0].Technologies)
	assert.Equal(t, []string{"Perl"}, draft.Projects[1].Technologies)

	assert.Equal(t, "Docker", draft.Skills[0].Name)
	assert.Equal(t, 65, draft.Skills[0].Level)
	assert.Equal(t, "DevOps", draft.Skills[0].Category)
	assert.Equal(t, domain.DefaultSkillCategory, draft.Skills[1].Category)

	assert.Equal(t, "2019", draft.Achievements[0].Date)
	assert.Equal(t, domain.AchievementTypeAward, draft.Achievements[0].Type)

	assert.Equal(t, "Cert by name", draft.Certificates[0].Title)
	assert.Equal(t, "Org", draft.Certificates[0].Issuer)
	assert.Equal(t, "2020", draft.Certificates[0].Date)
}

func TestToEditingEmptyDocument(t *testing.T) {
	draft := schema.ToEditing(nil)
	assert.NotNil(t, draft.Projects)
	assert.Empty(t, draft.Projects)
	assert.Empty(t, draft.Achievements)
	assert.Equal(t, "classic", draft.ThemePreference)

	draft = schema.ToEditing(&domain.PersistedDraft{})
	assert.Empty(t, draft.Skills)
	assert.Empty(t, draft.Certificates)
}

func TestRoundTripPreservesFields(t *testing.T) {
	original := samplePersisted()
	round := schema.ToPersisted(schema.ToEditing(original))

	assert.Equal(t, original.Profile.Name, round.Profile.Name)
	assert.Equal(t, original.Profile.Email, round.Profile.Email)
	assert.Equal(t, original.Profile.Username, round.Profile.Username)

	require.Len(t, round.Projects, 1)
	assert.Equal(t, original.Projects[0].ID, round.Projects[0].ID)
	assert.Equal(t, original.Projects[0].Technologies, round.Projects[0].Technologies)
	assert.Equal(t, original.Projects[0].GithubURL, round.Projects[0].GithubURL)
	assert.Equal(t, original.Projects[0].DemoURL, round.Projects[0].DemoURL)
	assert.Equal(t, original.Projects[0].Stars, round.Projects[0].Stars)
	// derived keys are regenerated, not preserved
	assert.Equal(t, []string{"Go", "React"}, round.Projects[0].Stack)
	assert.Equal(t, "github", round.Projects[0].Type)

	require.Len(t, round.WorkExperiences, 1)
	assert.Equal(t, "SWE Intern", round.WorkExperiences[0].Title)
	assert.Equal(t, "Acme", round.WorkExperiences[0].Organization)
	assert.Equal(t, "2023", round.WorkExperiences[0].Duration)

	require.Len(t, round.Awards, 1)
	assert.Equal(t, "Hackathon Winner", round.Awards[0].Title)
	assert.Equal(t, "DevFest", round.Awards[0].Organization)
	assert.Equal(t, "2024", round.Awards[0].Year)
	assert.Equal(t, "award", round.Awards[0].Category)

	require.Len(t, round.Certificates, 1)
	assert.Equal(t, "2022", round.Certificates[0].Year)
	assert.Equal(t, "ABC-123", round.Certificates[0].CredentialID)

	assert.Equal(t, "modern", round.Settings.ThemePreference)
}

func TestAchievementPartition(t *testing.T) {
	draft := domain.Draft{
		Achievements: []domain.Achievement{
			{Title: "A", Type: domain.AchievementTypeInternship},
			{Title: "B", Type: "award"},
			{Title: "C", Type: domain.AchievementTypeInternship},
			{Title: "D", Type: "hackathon"},
		},
	}

	p := schema.ToPersisted(draft)

	require.Len(t, p.WorkExperiences, 2)
	assert.Equal(t, "A", p.WorkExperiences[0].Title)
	assert.Equal(t, "C", p.WorkExperiences[1].Title)

	require.Len(t, p.Awards, 2)
	assert.Equal(t, "B", p.Awards[0].Title)
	assert.Equal(t, "D", p.Awards[1].Title)
	assert.Equal(t, "hackathon", p.Awards[1].Category)

	// Membership survives a second round trip solely via the discriminator.
	again := schema.ToPersisted(schema.ToEditing(p))
	assert.Len(t, again.WorkExperiences, 2)
	assert.Len(t, again.Awards, 2)
}

func TestProjectTypeDerivation(t *testing.T) {
	p := schema.ToPersisted(domain.Draft{
		Projects: []domain.Project{
			{Title: "gh", RepoURL: "https://github.com/x/y"},
			{Title: "gl", RepoURL: "https://gitlab.com/x/y"},
			{Title: "none"},
		},
	})

	assert.Equal(t, "github", p.Projects[0].Type)
	assert.Equal(t, "others", p.Projects[1].Type)
	assert.Equal(t, "others", p.Projects[2].Type)
}

func TestDecodePersistedDraftLenient(t *testing.T) {
	// skills section is malformed (object instead of array) and must be
	// dropped without failing the whole document
	doc := []byte(`{
		"profile": {"name": "Alex"},
		"skills": {"bogus": true},
		"projects": [{"id": 12, "title": "Numeric id", "stars": "7"}]
	}`)

	p, err := domain.DecodePersistedDraft(doc)
	require.NoError(t, err)
	assert.Equal(t, "Alex", p.Profile.Name)
	assert.Empty(t, p.Skills)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, domain.FlexString("12"), p.Projects[0].ID)
	assert.Equal(t, domain.FlexInt(7), p.Projects[0].Stars)

	_, err = domain.DecodePersistedDraft([]byte(`["not an object"]`))
	assert.Error(t, err)
}

func TestSkillTiers(t *testing.T) {
	assert.Equal(t, domain.TierBeginner, domain.Skill{Level: 69}.Tier())
	assert.Equal(t, domain.TierIntermediate, domain.Skill{Level: 70}.Tier())
	assert.Equal(t, domain.TierIntermediate, domain.Skill{Level: 84}.Tier())
	assert.Equal(t, domain.TierProfessional, domain.Skill{Level: 85}.Tier())

	assert.Equal(t, 1, domain.Skill{Level: 69}.Tier().Stars())
	assert.Equal(t, 2, domain.Skill{Level: 84}.Tier().Stars())
	assert.Equal(t, 3, domain.Skill{Level: 85}.Tier().Stars())
}
