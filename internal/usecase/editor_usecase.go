package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/editor"
	"go-portfolio-backend/internal/schema"
	"go-portfolio-backend/pkg/apperror"
	"go-portfolio-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func newItemID() string {
	return uuid.NewString()
}

// Numeric levels assigned to the textual tiers the extraction service emits.
var extractedSkillLevels = map[string]int{
	"beginner":     50,
	"intermediate": 75,
	"advanced":     90,
	"expert":       90,
}

type editorUsecase struct {
	sessions *editor.Manager
	repo     domain.DraftRepository
	validate *validator.Validate
}

// draftSaver is the persistence hook handed to editing sessions: it gates on
// save-readiness, maps the draft back to the persisted schema and writes it.
type draftSaver struct {
	repo     domain.DraftRepository
	validate *validator.Validate
}

func (s *draftSaver) SaveDraft(ctx context.Context, userID string, draft domain.Draft) error {
	if err := s.validate.Struct(draft.Profile); err != nil {
		return apperror.BadRequest("Profile name and a valid email are required before saving")
	}
	if err := s.repo.Save(ctx, userID, schema.ToPersisted(draft)); err != nil {
		return apperror.BadGateway("Could not persist draft", err)
	}
	return nil
}

func NewEditorUsecase(repo domain.DraftRepository, validate *validator.Validate, quietPeriod time.Duration) domain.EditorUsecase {
	saver := &draftSaver{repo: repo, validate: validate}
	u := &editorUsecase{
		repo:     repo,
		validate: validate,
	}
	u.sessions = editor.NewManager(quietPeriod, saver, func(userID string, err error) {
		logger.Log.Error("autosave failed", "user_id", userID, "error", err.Error())
	})
	return u
}

// session returns the user's live session, hydrating it from the store on
// first access. Concurrent first requests may both fetch, but Hydrate is
// install-once, so a losing baseline never replaces edits acknowledged after
// the winning one.
func (u *editorUsecase) session(ctx context.Context, userID string) (*editor.Session, error) {
	s := u.sessions.GetOrCreate(userID)
	if s.Hydrated() {
		return s, nil
	}
	stored, err := u.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperror.BadGateway("Could not load draft", err)
	}
	draft := schema.ToEditing(stored)
	// the persisted schema carries no achievement ids; editing needs them
	for i := range draft.Achievements {
		if draft.Achievements[i].ID == "" {
			draft.Achievements[i].ID = newItemID()
		}
	}
	s.Hydrate(draft)
	return s, nil
}

// mapSessionError translates editor sentinel errors into transport-facing
// app errors; everything else passes through.
func mapSessionError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, editor.ErrNotHydrated):
		return apperror.Conflict("Draft is not loaded yet")
	case errors.Is(err, editor.ErrClosed):
		return apperror.Conflict("Editing session was closed")
	case errors.Is(err, editor.ErrNotFound):
		return apperror.NotFound("Item not found in draft")
	default:
		return err
	}
}

func (u *editorUsecase) GetDraft(ctx context.Context, userID string) (domain.Draft, error) {
	s, err := u.session(ctx, userID)
	if err != nil {
		return domain.Draft{}, err
	}
	snap, err := s.Snapshot()
	return snap, mapSessionError(err)
}

func (u *editorUsecase) SaveStatus(ctx context.Context, userID string) (domain.SaveStatus, error) {
	s, err := u.session(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.Status(), nil
}

func (u *editorUsecase) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.Profile, error) {
	s, err := u.session(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	profile, err := s.UpdateProfile(update)
	return profile, mapSessionError(err)
}

func (u *editorUsecase) SetThemePreference(ctx context.Context, userID, theme string) error {
	if theme == "" {
		return apperror.BadRequest("Theme preference must not be empty")
	}
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.SetThemePreference(theme))
}

func (u *editorUsecase) UpsertProject(ctx context.Context, userID string, project domain.Project) (domain.Project, error) {
	if err := u.validate.Struct(project); err != nil {
		return domain.Project{}, apperror.BadRequest(err.Error())
	}
	s, err := u.session(ctx, userID)
	if err != nil {
		return domain.Project{}, err
	}
	saved, err := s.UpsertProject(project)
	return saved, mapSessionError(err)
}

func (u *editorUsecase) DeleteProject(ctx context.Context, userID, projectID string) error {
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.RemoveProject(projectID))
}

func (u *editorUsecase) UpsertSkill(ctx context.Context, userID string, skill domain.Skill) error {
	if skill.Category == "" {
		skill.Category = domain.DefaultSkillCategory
	}
	if err := u.validate.Struct(skill); err != nil {
		return apperror.BadRequest(err.Error())
	}
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.UpsertSkill(skill))
}

func (u *editorUsecase) DeleteSkill(ctx context.Context, userID, name string) error {
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.RemoveSkill(name))
}

func (u *editorUsecase) UpsertAchievement(ctx context.Context, userID string, achievement domain.Achievement) (domain.Achievement, error) {
	if achievement.Type == "" {
		achievement.Type = domain.AchievementTypeAward
	}
	if err := u.validate.Struct(achievement); err != nil {
		return domain.Achievement{}, apperror.BadRequest(err.Error())
	}
	s, err := u.session(ctx, userID)
	if err != nil {
		return domain.Achievement{}, err
	}
	saved, err := s.UpsertAchievement(achievement)
	return saved, mapSessionError(err)
}

func (u *editorUsecase) DeleteAchievement(ctx context.Context, userID, achievementID string) error {
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.RemoveAchievement(achievementID))
}

func (u *editorUsecase) UpsertCertificate(ctx context.Context, userID string, certificate domain.Certificate) error {
	if err := u.validate.Struct(certificate); err != nil {
		return apperror.BadRequest(err.Error())
	}
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.UpsertCertificate(certificate))
}

func (u *editorUsecase) DeleteCertificate(ctx context.Context, userID, title string) error {
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.RemoveCertificate(title))
}

func (u *editorUsecase) Flush(ctx context.Context, userID string) error {
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}
	return mapSessionError(s.Flush(ctx))
}

// Publish promotes the draft to the live portfolio. The draft is flushed
// first so the store holds exactly what the user sees, then the stored copy
// is promoted in one transaction.
func (u *editorUsecase) Publish(ctx context.Context, userID string, confirm bool) (string, error) {
	if !confirm {
		return "", apperror.BadRequest("Publishing requires explicit confirmation")
	}
	s, err := u.session(ctx, userID)
	if err != nil {
		return "", err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return "", mapSessionError(err)
	}
	if err := u.validate.Struct(snap.Profile); err != nil {
		return "", apperror.BadRequest("Profile name and a valid email are required before publishing")
	}
	if err := s.Flush(ctx); err != nil {
		return "", mapSessionError(err)
	}
	if err := u.repo.Publish(ctx, userID); err != nil {
		return "", apperror.BadGateway("Could not publish portfolio", err)
	}
	return "Portfolio published successfully", nil
}

// MergeImport folds confirmed resume data into the draft. Profile fields
// only fill blanks; collection items are appended with duplicates (by name
// or title) skipped. The merged draft is flushed immediately so a crash
// right after confirmation cannot lose the import.
func (u *editorUsecase) MergeImport(ctx context.Context, userID string, data domain.ResumeData) error {
	s, err := u.session(ctx, userID)
	if err != nil {
		return err
	}

	err = s.Mutate(func(d *domain.Draft) error {
		mergeProfile(&d.Profile, data)

		projectTitles := titleSet(len(d.Projects), func(i int) string { return d.Projects[i].Title })
		for _, p := range data.Projects {
			if _, dup := projectTitles[normalizeTitle(p.Title)]; dup || p.Title == "" {
				continue
			}
			projectTitles[normalizeTitle(p.Title)] = struct{}{}
			d.Projects = append(d.Projects, domain.Project{
				ID:           newItemID(),
				Title:        p.Title,
				Description:  p.Description,
				Technologies: p.Tech,
				Features:     p.Features,
			})
		}

		skillNames := titleSet(len(d.Skills), func(i int) string { return d.Skills[i].Name })
		for _, sk := range data.Skills {
			if _, dup := skillNames[normalizeTitle(sk.Name)]; dup || sk.Name == "" {
				continue
			}
			skillNames[normalizeTitle(sk.Name)] = struct{}{}
			category := sk.Category
			if category == "" {
				category = domain.DefaultSkillCategory
			}
			d.Skills = append(d.Skills, domain.Skill{
				Name:     sk.Name,
				Level:    skillLevelFromTier(sk.Level),
				Category: category,
			})
		}

		achievementTitles := titleSet(len(d.Achievements), func(i int) string { return d.Achievements[i].Title })
		for _, we := range data.WorkExperience {
			if _, dup := achievementTitles[normalizeTitle(we.Title)]; dup || we.Title == "" {
				continue
			}
			achievementTitles[normalizeTitle(we.Title)] = struct{}{}
			d.Achievements = append(d.Achievements, domain.Achievement{
				ID:          newItemID(),
				Title:       we.Title,
				Issuer:      we.Company,
				Date:        we.Duration,
				Description: we.Description,
				Type:        domain.AchievementTypeInternship,
			})
		}
		for _, a := range data.Achievements {
			if _, dup := achievementTitles[normalizeTitle(a.Title)]; dup || a.Title == "" {
				continue
			}
			achievementTitles[normalizeTitle(a.Title)] = struct{}{}
			achievementType := a.Type
			if achievementType == "" {
				achievementType = domain.AchievementTypeAward
			}
			d.Achievements = append(d.Achievements, domain.Achievement{
				ID:          newItemID(),
				Title:       a.Title,
				Issuer:      a.Issuer,
				Date:        a.Date,
				Description: a.Description,
				Type:        achievementType,
			})
		}

		certificateTitles := titleSet(len(d.Certificates), func(i int) string { return d.Certificates[i].Title })
		for _, c := range data.Certifications {
			if _, dup := certificateTitles[normalizeTitle(c.Name)]; dup || c.Name == "" {
				continue
			}
			certificateTitles[normalizeTitle(c.Name)] = struct{}{}
			d.Certificates = append(d.Certificates, domain.Certificate{
				Title:       c.Name,
				Issuer:      c.Issuer,
				Date:        c.Year,
				Description: c.Description,
			})
		}
		return nil
	})
	if err != nil {
		return mapSessionError(err)
	}

	return mapSessionError(s.Flush(ctx))
}

func (u *editorUsecase) CloseSession(userID string) {
	u.sessions.Close(userID)
}

func (u *editorUsecase) CloseAllSessions() {
	u.sessions.CloseAll()
}

func mergeProfile(p *domain.Profile, data domain.ResumeData) {
	fillIfEmpty(&p.Name, data.Name)
	fillIfEmpty(&p.Title, data.Title)
	fillIfEmpty(&p.Location, data.Location)
	fillIfEmpty(&p.Email, data.Email)
	fillIfEmpty(&p.About, data.About)
	fillIfEmpty(&p.GitHub, data.GitHub)
	fillIfEmpty(&p.LinkedIn, data.LinkedIn)
	fillIfEmpty(&p.Website, data.Website)
}

func fillIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func titleSet(n int, title func(int) string) map[string]struct{} {
	set := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		set[normalizeTitle(title(i))] = struct{}{}
	}
	return set
}

func skillLevelFromTier(tier string) int {
	if level, ok := extractedSkillLevels[normalizeTitle(tier)]; ok {
		return level
	}
	return extractedSkillLevels["beginner"]
}
