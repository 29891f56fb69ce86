package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/dbx"
	"github.com/dmitrijs2005/auditdesk/internal/filex"
	"github.com/dmitrijs2005/auditdesk/internal/server/importer"
	"github.com/dmitrijs2005/auditdesk/internal/server/metrics"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
	"github.com/dmitrijs2005/auditdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/auditdesk/internal/server/storage"
)

// EvidenceExtensions are the file types accepted as evidence.
var EvidenceExtensions = []string{".pdf", ".pptx", ".png", ".jpeg", ".jpg"}

// RecordService owns the audit record sets: listing, edits, register
// imports and evidence files.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     storage.Storage
	metrics     *metrics.Metrics
	parse       func(name string, content []byte) ([]map[string]any, error)
	now         func() time.Time
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, st storage.Storage, mt *metrics.Metrics) *RecordService {
	return &RecordService{
		db:          db,
		repomanager: m,
		storage:     st,
		metrics:     mt,
		parse:       importer.Parse,
		now:         time.Now,
	}
}

// List returns the records of category in sheet order.
func (s *RecordService) List(ctx context.Context, category models.Category) ([]*models.Record, error) {
	records, err := s.repomanager.Records(s.db).ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	return records, nil
}

// Update replaces the document of one record with data. Keys the server
// owns are ignored.
//
// Only an admin may reopen a Closed record. Evidence may be kept or, by an
// admin, cleared; it is set only through AttachEvidence.
func (s *RecordService) Update(ctx context.Context, role models.Role, category models.Category, id int64, data map[string]any) error {
	repo := s.repomanager.Records(s.db)
	stored, err := repo.Get(ctx, category, id)
	if err != nil {
		return err
	}
	if err := checkUpdate(role, stored.Data, data); err != nil {
		return err
	}
	return repo.ReplaceData(ctx, category, id, models.StripServerKeys(data))
}

func textValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func closed(status any) bool {
	return strings.EqualFold(textValue(status), models.StatusClosed)
}

func checkUpdate(role models.Role, stored, next map[string]any) error {
	if role == models.RoleAdmin {
		if ev := textValue(next[models.KeyEvidence]); ev != "" && ev != textValue(stored[models.KeyEvidence]) {
			return fmt.Errorf("%w: evidence is set by upload only", common.ErrorForbidden)
		}
		return nil
	}
	if closed(stored[models.KeyStatus]) && !closed(next[models.KeyStatus]) {
		return fmt.Errorf("%w: only an admin can reopen a closed record", common.ErrorForbidden)
	}
	if textValue(next[models.KeyEvidence]) != textValue(stored[models.KeyEvidence]) {
		return fmt.Errorf("%w: only an admin can change evidence", common.ErrorForbidden)
	}
	return nil
}

// Import replaces the whole category with the rows of the uploaded sheet
// in one transaction and returns the number of records created.
func (s *RecordService) Import(ctx context.Context, category models.Category, name string, content []byte) (int, error) {
	docs, err := s.parse(name, content)
	if err != nil {
		return 0, err
	}

	uploadedAt := s.now().UTC()
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Records(tx)
		if _, err := repo.DeleteCategory(ctx, category); err != nil {
			return err
		}
		for i, doc := range docs {
			rec := &models.Record{
				Category:   category,
				Position:   i,
				Data:       models.StripServerKeys(doc),
				UploadedAt: uploadedAt,
			}
			if err := repo.Insert(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error importing records: %w", err)
	}

	s.metrics.AddImported(string(category), len(docs))
	return len(docs), nil
}

// AttachEvidence stores the file and links it to the record, which is
// closed at the same time. It returns the stored file name.
func (s *RecordService) AttachEvidence(ctx context.Context, category models.Category, id int64, name string, content []byte) (filename string, err error) {
	defer func() { s.metrics.EvidenceUpload(err == nil) }()

	if !filex.HasExtension(name, EvidenceExtensions) {
		return "", fmt.Errorf("%w: unsupported evidence type %q", common.ErrorValidation, filepath.Ext(name))
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrorValidation)
	}

	repo := s.repomanager.Records(s.db)
	if _, err := repo.Get(ctx, category, id); err != nil {
		return "", err
	}

	key := storage.NewKey(name)
	if err := s.storage.Put(ctx, key, content, storage.ContentType(name)); err != nil {
		return "", fmt.Errorf("error storing evidence: %w", err)
	}

	patch := map[string]any{models.KeyEvidence: key, models.KeyStatus: models.StatusClosed}
	if err := repo.MergeData(ctx, category, id, patch); err != nil {
		return "", err
	}
	return key, nil
}

// OpenEvidence returns a stored evidence file. Names that are not plain
// file names are reported as not found.
func (s *RecordService) OpenEvidence(ctx context.Context, filename string) (*storage.Object, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.HasPrefix(filename, ".") {
		return nil, common.ErrorNotFound
	}
	return s.storage.Get(ctx, filename)
}
