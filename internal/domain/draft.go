package domain

import "context"

// SaveStatus is the UI-facing tri-state of the autosave scheduler.
type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusSaving  SaveStatus = "saving"
	StatusUnsaved SaveStatus = "unsaved"
)

// Achievement type discriminators. Everything that is not an internship is
// persisted into the awards collection; the discriminator is the only signal
// used to reconstruct collection membership on save.
const (
	AchievementTypeInternship = "internship"
	AchievementTypeAward      = "award"
)

// Profile is the single-instance profile section of the draft. Name and email
// are required for save-readiness; everything else is optional.
type Profile struct {
	Username string `json:"username"`
	Name     string `json:"name" validate:"required"`
	Title    string `json:"title"`
	Tagline  string `json:"tagline"`
	Location string `json:"location"`
	Email    string `json:"email" validate:"required,email"`
	About    string `json:"about"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	Avatar   string `json:"avatar"`
}

// ProfileUpdate carries a partial profile edit; nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Title    *string `json:"title"`
	Tagline  *string `json:"tagline"`
	Location *string `json:"location"`
	Email    *string `json:"email"`
	About    *string `json:"about"`
	GitHub   *string `json:"github"`
	LinkedIn *string `json:"linkedin"`
	Website  *string `json:"website"`
	Avatar   *string `json:"avatar"`
}

// Apply merges the update into p, field by field.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Tagline != nil {
		p.Tagline = *u.Tagline
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.About != nil {
		p.About = *u.About
	}
	if u.GitHub != nil {
		p.GitHub = *u.GitHub
	}
	if u.LinkedIn != nil {
		p.LinkedIn = *u.LinkedIn
	}
	if u.Website != nil {
		p.Website = *u.Website
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
}

type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Features     []string `json:"features"`
	DemoURL      string   `json:"demoUrl"`
	RepoURL      string   `json:"repoUrl"`
	StarCount    int      `json:"starCount"`
	Featured     bool     `json:"featured"`
}

type Skill struct {
	Name     string `json:"name" validate:"required"`
	Level    int    `json:"level" validate:"min=0,max=100"`
	Category string `json:"category"`
}

// Achievement is the editing-schema union over work experiences and awards.
// Type "internship" marks a work experience; any other value marks an award
// whose category is the type itself.
type Achievement struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"required"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required"`
}

func (a Achievement) IsWorkExperience() bool {
	return a.Type == AchievementTypeInternship
}

type Certificate struct {
	Title        string `json:"title" validate:"required"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
	Description  string `json:"description"`
	Status       string `json:"status"`
}

// Draft is the full in-progress portfolio in the editing schema.
type Draft struct {
	Profile         Profile       `json:"profile"`
	Projects        []Project     `json:"projects"`
	Skills          []Skill       `json:"skills"`
	Achievements    []Achievement `json:"achievements"`
	Certificates    []Certificate `json:"certificates"`
	ThemePreference string        `json:"themePreference"`
}

// Clone returns a deep copy. Mutations are copy-on-write so that the autosave
// scheduler can snapshot the draft without racing later edits.
func (d Draft) Clone() Draft {
	out := d
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Technologies = append([]string(nil), p.Technologies...)
		p.Features = append([]string(nil), p.Features...)
		out.Projects[i] = p
	}
	out.Skills = append([]Skill(nil), d.Skills...)
	out.Achievements = append([]Achievement(nil), d.Achievements...)
	out.Certificates = append([]Certificate(nil), d.Certificates...)
	return out
}

type DraftRepository interface {
	// GetOrCreate returns the stored draft for the user, creating an empty
	// one when none exists yet.
	GetOrCreate(ctx context.Context, userID string) (*PersistedDraft, error)
	// Save replaces the stored draft wholesale; there is no partial save.
	Save(ctx context.Context, userID string, draft *PersistedDraft) error
	// Publish promotes the stored draft into the live portfolio tables.
	Publish(ctx context.Context, userID string) error
}

type EditorUsecase interface {
	GetDraft(ctx context.Context, userID string) (Draft, error)
	SaveStatus(ctx context.Context, userID string) (SaveStatus, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (Profile, error)
	SetThemePreference(ctx context.Context, userID, theme string) error
	UpsertProject(ctx context.Context, userID string, project Project) (Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error
	UpsertSkill(ctx context.Context, userID string, skill Skill) error
	DeleteSkill(ctx context.Context, userID, name string) error
	UpsertAchievement(ctx context.Context, userID string, achievement Achievement) (Achievement, error)
	DeleteAchievement(ctx context.Context, userID, achievementID string) error
	UpsertCertificate(ctx context.Context, userID string, certificate Certificate) error
	DeleteCertificate(ctx context.Context, userID, title string) error
	Flush(ctx context.Context, userID string) error
	Publish(ctx context.Context, userID string, confirm bool) (string, error)
	// MergeImport folds confirmed resume data into the draft and flushes it.
	MergeImport(ctx context.Context, userID string, data ResumeData) error
	CloseSession(userID string)
	CloseAllSessions()
}
