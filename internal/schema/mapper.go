// Package schema maps between the persisted portfolio document and the
// flattened editing schema. Both directions are pure and deterministic;
// malformed or missing collections degrade to empty values, never errors.
package schema

import (
	"strings"

	"go-portfolio-backend/internal/domain"
)

const defaultTheme = "classic"

// ToEditing flattens a persisted draft into the editing schema. Work
// experiences are folded into the achievements list (tagged "internship")
// followed by awards, preserving order within each source collection.
func ToEditing(p *domain.PersistedDraft) domain.Draft {
	if p == nil {
		p = &domain.PersistedDraft{}
	}

	draft := domain.Draft{
		Projects:     make([]domain.Project, 0, len(p.Projects)),
		Skills:       make([]domain.Skill, 0, len(p.Skills)),
		Achievements: make([]domain.Achievement, 0, len(p.WorkExperiences)+len(p.Awards)),
		Certificates: make([]domain.Certificate, 0, len(p.Certificates)),
	}

	if p.Profile != nil {
		draft.Profile = domain.Profile{
			Username: p.Profile.Username,
			Name:     p.Profile.Name,
			Title:    p.Profile.Title,
			Tagline:  p.Profile.Tagline,
			Location: p.Profile.Location,
			Email:    p.Profile.Email,
			About:    p.Profile.About,
			GitHub:   p.Profile.GitHub,
			LinkedIn: p.Profile.LinkedIn,
			Website:  p.Profile.Website,
			Avatar:   p.Profile.Avatar,
		}
	}

	for _, pp := range p.Projects {
		tech := pp.Technologies
		if len(tech) == 0 {
			tech = pp.Tech // legacy key
		}
		draft.Projects = append(draft.Projects, domain.Project{
			ID:           string(pp.ID),
			Title:        pp.Title,
			Description:  pp.Description,
			Technologies: emptyIfNil(tech),
			Features:     emptyIfNil(pp.Features),
			DemoURL:      pp.DemoURL,
			RepoURL:      pp.GithubURL,
			StarCount:    int(pp.Stars),
			Featured:     pp.Featured,
		})
	}

	for _, ps := range p.Skills {
		name := firstNonEmpty(ps.Name, ps.SkillName)
		level := int(ps.Level)
		if level == 0 {
			level = int(ps.Proficiency)
		}
		category := firstNonEmpty(ps.Category, ps.Type, domain.DefaultSkillCategory)
		draft.Skills = append(draft.Skills, domain.Skill{
			Name:     name,
			Level:    level,
			Category: category,
		})
	}

	// Work experiences always precede awards in the merged sequence.
	for _, w := range p.WorkExperiences {
		draft.Achievements = append(draft.Achievements, domain.Achievement{
			Title:       w.Title,
			Issuer:      w.Organization,
			Date:        w.Duration,
			Description: w.Description,
			Type:        domain.AchievementTypeInternship,
		})
	}
	for _, a := range p.Awards {
		draft.Achievements = append(draft.Achievements, domain.Achievement{
			Title:       a.Title,
			Issuer:      firstNonEmpty(a.Issuer, a.Organization),
			Date:        firstNonEmpty(a.Date, a.Year, a.AwardedDate),
			Description: a.Description,
			Type:        firstNonEmpty(a.Type, a.Category, domain.AchievementTypeAward),
		})
	}

	for _, c := range p.Certificates {
		draft.Certificates = append(draft.Certificates, domain.Certificate{
			Title:        firstNonEmpty(c.Title, c.Name),
			Issuer:       firstNonEmpty(c.Issuer, c.Organization),
			Date:         firstNonEmpty(c.Year, c.Date, c.IssuedDate),
			CredentialID: c.CredentialID,
			Description:  c.Description,
			Status:       c.Status,
		})
	}

	draft.ThemePreference = defaultTheme
	if p.Settings != nil && p.Settings.ThemePreference != "" {
		draft.ThemePreference = p.Settings.ThemePreference
	}

	return draft
}

// ToPersisted is the inverse transform. Achievements are partitioned back
// into work experiences (type "internship") and awards (everything else),
// and the legacy stack/link/type keys are regenerated from scratch.
func ToPersisted(d domain.Draft) *domain.PersistedDraft {
	out := &domain.PersistedDraft{
		Profile: &domain.PersistedProfile{
			Username: d.Profile.Username,
			Name:     d.Profile.Name,
			Title:    d.Profile.Title,
			Tagline:  d.Profile.Tagline,
			Location: d.Profile.Location,
			Email:    d.Profile.Email,
			About:    d.Profile.About,
			GitHub:   d.Profile.GitHub,
			LinkedIn: d.Profile.LinkedIn,
			Website:  d.Profile.Website,
			Avatar:   d.Profile.Avatar,
		},
		Projects:        make([]domain.PersistedProject, 0, len(d.Projects)),
		Skills:          make([]domain.PersistedSkill, 0, len(d.Skills)),
		WorkExperiences: []domain.PersistedWorkExperience{},
		Awards:          []domain.PersistedAward{},
		Certificates:    make([]domain.PersistedCertificate, 0, len(d.Certificates)),
		Settings:        &domain.PersistedSettings{ThemePreference: d.ThemePreference},
	}

	for _, p := range d.Projects {
		out.Projects = append(out.Projects, domain.PersistedProject{
			ID:           domain.FlexString(p.ID),
			Title:        p.Title,
			Description:  p.Description,
			Technologies: emptyIfNil(p.Technologies),
			Stack:        emptyIfNil(p.Technologies),
			Features:     emptyIfNil(p.Features),
			DemoURL:      p.DemoURL,
			GithubURL:    p.RepoURL,
			Link:         firstNonEmpty(p.DemoURL, p.RepoURL),
			Type:         projectType(p.RepoURL),
			Stars:        domain.FlexInt(p.StarCount),
			Featured:     p.Featured,
		})
	}

	for _, s := range d.Skills {
		out.Skills = append(out.Skills, domain.PersistedSkill{
			Name:     s.Name,
			Level:    domain.FlexInt(s.Level),
			Category: s.Category,
		})
	}

	// Partition branches solely on the discriminator, never on field shape.
	for _, a := range d.Achievements {
		if a.IsWorkExperience() {
			out.WorkExperiences = append(out.WorkExperiences, domain.PersistedWorkExperience{
				Title:        a.Title,
				Organization: a.Issuer,
				Duration:     a.Date,
				Description:  a.Description,
				Status:       "completed",
				Skills:       []string{},
			})
		} else {
			out.Awards = append(out.Awards, domain.PersistedAward{
				Title:        a.Title,
				Organization: a.Issuer,
				Year:         a.Date,
				Description:  a.Description,
				Category:     a.Type,
			})
		}
	}

	for _, c := range d.Certificates {
		out.Certificates = append(out.Certificates, domain.PersistedCertificate{
			Title:        c.Title,
			Issuer:       c.Issuer,
			Year:         c.Date,
			CredentialID: c.CredentialID,
			Description:  c.Description,
			Status:       c.Status,
		})
	}

	return out
}

func projectType(repoURL string) string {
	if strings.Contains(repoURL, "github") {
		return "github"
	}
	return "others"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
