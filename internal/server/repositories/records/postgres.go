package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/dbx"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.Record, error) {
	r := &models.Record{}
	var category string
	var data []byte
	if err := s.Scan(&r.ID, &category, &r.Position, &data, &r.UploadedAt); err != nil {
		return nil, err
	}
	r.Category = models.Category(category)
	if err := json.Unmarshal(data, &r.Data); err != nil {
		return nil, fmt.Errorf("decode record %d: %w", r.ID, err)
	}
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	return r, nil
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category models.Category) ([]*models.Record, error) {
	query :=
		`SELECT id, category, position, data, uploaded_at FROM audit_records
		 WHERE category = $1
		 ORDER BY position, id
		 `

	rows, err := r.db.QueryContext(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, category models.Category, id int64) (*models.Record, error) {
	query :=
		`SELECT id, category, position, data, uploaded_at FROM audit_records
		 WHERE id = $1 AND category = $2
		 `

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id, string(category)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, record *models.Record) error {
	data, err := json.Marshal(record.Data)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	query :=
		`INSERT INTO audit_records (category, position, data, uploaded_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	if err := r.db.QueryRowContext(ctx, query,
		string(record.Category), record.Position, data, record.UploadedAt).Scan(&record.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ReplaceData overwrites the document of one record.
func (r *PostgresRepository) ReplaceData(ctx context.Context, category models.Category, id int64, data map[string]any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	query :=
		`UPDATE audit_records SET data = $3
		 WHERE id = $1 AND category = $2
		 `
	return r.exec(ctx, query, id, string(category), b)
}

// MergeData sets the keys of patch on the document of one record.
func (r *PostgresRepository) MergeData(ctx context.Context, category models.Category, id int64, patch map[string]any) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	query :=
		`UPDATE audit_records SET data = data || $3::jsonb
		 WHERE id = $1 AND category = $2
		 `
	return r.exec(ctx, query, id, string(category), b)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, category models.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_records WHERE category = $1`, string(category))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
