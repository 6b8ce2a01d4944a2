package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"go-portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type draftRepository struct {
	db *pgxpool.Pool
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func NewDraftRepository(db *pgxpool.Pool) domain.DraftRepository {
	return &draftRepository{db: db}
}

// GetOrCreate returns the stored draft document, inserting an empty one on
// first access so later saves can always assume the row exists.
func (r *draftRepository) GetOrCreate(ctx context.Context, userID string) (*domain.PersistedDraft, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO drafts (user_id, data) VALUES ($1, '{}') ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure draft row: %w", err)
	}

	var data []byte
	err = r.db.QueryRow(ctx, `SELECT data FROM drafts WHERE user_id = $1`, userID).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draft: %w", err)
	}
	return domain.DecodePersistedDraft(data)
}

func (r *draftRepository) Save(ctx context.Context, userID string, draft *domain.PersistedDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO drafts (user_id, data, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		userID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Publish promotes the stored draft into the normalized live tables. Each
// collection is replaced wholesale (delete all, insert new) inside one
// transaction so readers never see a half-published portfolio.
func (r *draftRepository) Publish(ctx context.Context, userID string) error {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM drafts WHERE user_id = $1`, userID).Scan(&data)
	if err != nil {
		return fmt.Errorf("failed to fetch draft for publish: %w", err)
	}
	draft, err := domain.DecodePersistedDraft(data)
	if err != nil {
		return fmt.Errorf("stored draft is not a valid document: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	profile := draft.Profile
	if profile == nil {
		profile = &domain.PersistedProfile{}
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO portfolio_profiles (
			user_id, username, name, title, tagline, location, email,
			about, github, linkedin, website, avatar, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username, name = EXCLUDED.name,
			title = EXCLUDED.title, tagline = EXCLUDED.tagline,
			location = EXCLUDED.location, email = EXCLUDED.email,
			about = EXCLUDED.about, github = EXCLUDED.github,
			linkedin = EXCLUDED.linkedin, website = EXCLUDED.website,
			avatar = EXCLUDED.avatar, published_at = NOW()`,
		userID, profile.Username, profile.Name, profile.Title, profile.Tagline,
		profile.Location, profile.Email, profile.About, profile.GitHub,
		profile.LinkedIn, profile.Website, profile.Avatar,
	)
	if err != nil {
		return fmt.Errorf("failed to publish profile: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM portfolio_projects WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}
	for _, p := range draft.Projects {
		_, err := tx.Exec(ctx, `
			INSERT INTO portfolio_projects (
				user_id, project_id, title, description, technologies, features,
				demo_url, github_url, link, type, stars, featured
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			userID, string(p.ID), p.Title, p.Description,
			pq.Array(p.Technologies), pq.Array(p.Features),
			p.DemoURL, p.GithubURL, p.Link, p.Type, int(p.Stars), p.Featured,
		)
		if err != nil {
			return fmt.Errorf("failed to publish project: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM portfolio_skills WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear skills: %w", err)
	}
	for _, s := range draft.Skills {
		_, err := tx.Exec(ctx, `
			INSERT INTO portfolio_skills (user_id, name, level, category)
			VALUES ($1, $2, $3, $4)`,
			userID, s.Name, int(s.Level), s.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to publish skill: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM portfolio_work_experiences WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear work experiences: %w", err)
	}
	for _, we := range draft.WorkExperiences {
		_, err := tx.Exec(ctx, `
			INSERT INTO portfolio_work_experiences (
				user_id, title, organization, duration, location, description, skills, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			userID, we.Title, we.Organization, we.Duration, we.Location,
			we.Description, pq.Array(we.Skills), we.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to publish work experience: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM portfolio_awards WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear awards: %w", err)
	}
	for _, a := range draft.Awards {
		// award fields carry legacy aliases in the stored document
		_, err := tx.Exec(ctx, `
			INSERT INTO portfolio_awards (user_id, title, issuer, awarded_date, description, category)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			userID, a.Title, first(a.Issuer, a.Organization),
			first(a.Date, a.Year, a.AwardedDate), a.Description, first(a.Type, a.Category),
		)
		if err != nil {
			return fmt.Errorf("failed to publish award: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM portfolio_certificates WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear certificates: %w", err)
	}
	for _, c := range draft.Certificates {
		_, err := tx.Exec(ctx, `
			INSERT INTO portfolio_certificates (
				user_id, title, issuer, issued_date, credential_id, description, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			userID, first(c.Title, c.Name), first(c.Issuer, c.Organization),
			first(c.Year, c.Date, c.IssuedDate), c.CredentialID, c.Description, c.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to publish certificate: %w", err)
		}
	}

	theme := ""
	if draft.Settings != nil {
		theme = draft.Settings.ThemePreference
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO portfolio_settings (user_id, theme_preference)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET theme_preference = EXCLUDED.theme_preference`,
		userID, theme,
	)
	if err != nil {
		return fmt.Errorf("failed to publish settings: %w", err)
	}

	return tx.Commit(ctx)
}
