package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type resumeRepository struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, userID, filename string, extracted *domain.ResumeData) (int64, error) {
	data, err := json.Marshal(extracted)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO resume_uploads (user_id, filename, extracted, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`,
		userID, filename, data, domain.ResumeStatusExtracted,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to store resume upload: %w", err)
	}
	return id, nil
}

func (r *resumeRepository) GetByID(ctx context.Context, id int64, userID string) (*domain.ResumeRecord, error) {
	var record domain.ResumeRecord
	var extracted []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, filename, extracted, status, created_at
		FROM resume_uploads WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&record.ID, &record.UserID, &record.Filename, &extracted, &record.Status, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch resume upload: %w", err)
	}

	if err := json.Unmarshal(extracted, &record.Extracted); err != nil {
		return nil, fmt.Errorf("stored extraction result is not valid: %w", err)
	}
	return &record, nil
}

func (r *resumeRepository) MarkConfirmed(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE resume_uploads SET status = $1 WHERE id = $2`,
		domain.ResumeStatusConfirmed, id,
	)
	return err
}
