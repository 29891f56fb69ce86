// Package records stores audit findings, one row per imported sheet line,
// with the sheet columns kept as a JSON document.
package records

import (
	"context"

	"github.com/dmitrijs2005/auditdesk/internal/server/models"
)

type Repository interface {
	ListByCategory(ctx context.Context, category models.Category) ([]*models.Record, error)
	Get(ctx context.Context, category models.Category, id int64) (*models.Record, error)
	Insert(ctx context.Context, record *models.Record) error
	ReplaceData(ctx context.Context, category models.Category, id int64, data map[string]any) error
	MergeData(ctx context.Context, category models.Category, id int64, patch map[string]any) error
	DeleteCategory(ctx context.Context, category models.Category) (int64, error)
}
