package services

import (
	"context"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/repositories/metadata"
)

// CategoryPreference remembers the category the user last worked in.
type CategoryPreference struct {
	repo metadata.Repository
}

func NewCategoryPreference(repo metadata.Repository) *CategoryPreference {
	return &CategoryPreference{repo: repo}
}

// Last returns the remembered category, or fallback when nothing usable is
// stored.
func (p *CategoryPreference) Last(ctx context.Context, fallback models.Category) models.Category {
	data, err := p.repo.Get(ctx, metadata.KeyCategory)
	if err != nil || len(data) == 0 {
		return fallback
	}
	c, err := models.ParseCategory(string(data))
	if err != nil {
		return fallback
	}
	return c
}

func (p *CategoryPreference) Remember(ctx context.Context, c models.Category) error {
	return p.repo.Set(ctx, metadata.KeyCategory, []byte(c))
}
