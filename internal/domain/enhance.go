package domain

import "context"

// EnhanceInput carries a project description to be rewritten by the AI
// service. Length is one of short/medium/detailed; tones are style hints.
type EnhanceInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	TechStack   []string `json:"tech_stack"`
	Length      string   `json:"length" validate:"omitempty,oneof=short medium detailed"`
	Tones       []string `json:"tones"`
}

// EnhancementVariant is one rewritten candidate; the id is its 1-based
// position and doubles as the pick handle in the UI.
type EnhancementVariant struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type EnhanceUsecase interface {
	EnhanceDescription(ctx context.Context, input EnhanceInput) ([]EnhancementVariant, error)
}
