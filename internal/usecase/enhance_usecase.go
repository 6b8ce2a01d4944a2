package usecase

import (
	"context"
	"errors"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/variants"
	"go-portfolio-backend/pkg/ai"
	"go-portfolio-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// DescriptionEnhancer is the slice of the AI client the enhancement flow needs.
type DescriptionEnhancer interface {
	EnhanceDescription(ctx context.Context, req ai.EnhanceRequest) ([]string, error)
}

type enhanceUsecase struct {
	enhancer DescriptionEnhancer
	validate *validator.Validate
}

func NewEnhanceUsecase(enhancer DescriptionEnhancer, validate *validator.Validate) domain.EnhanceUsecase {
	return &enhanceUsecase{
		enhancer: enhancer,
		validate: validate,
	}
}

// EnhanceDescription asks the AI service for rewritten candidates and splits
// the first generated text into discrete variants. A blob with no usable
// candidates is an extraction failure, not an empty success.
func (u *enhanceUsecase) EnhanceDescription(ctx context.Context, input domain.EnhanceInput) ([]domain.EnhancementVariant, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	texts, err := u.enhancer.EnhanceDescription(ctx, ai.EnhanceRequest{
		Title:       input.Title,
		Description: input.Description,
		TechStack:   input.TechStack,
		Length:      input.Length,
		Tones:       input.Tones,
	})
	if err != nil {
		return nil, apperror.BadGateway("Could not reach the enhancement service", err)
	}
	if len(texts) == 0 {
		return nil, apperror.Unprocessable("Enhancement produced no variants")
	}

	parsed, err := variants.Parse(texts[0])
	if err != nil {
		if errors.Is(err, variants.ErrNoVariants) {
			return nil, apperror.Unprocessable("Enhancement produced no variants")
		}
		return nil, err
	}

	out := make([]domain.EnhancementVariant, len(parsed))
	for i, v := range parsed {
		out[i] = domain.EnhancementVariant{ID: v.ID, Text: v.Text}
	}
	return out, nil
}
