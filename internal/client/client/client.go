package client

import (
	"context"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
)

// Client is the remote API the console and the register engine consume.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	// Login verifies the credentials and returns the session to persist.
	// The access token it carries is installed on the client.
	Login(ctx context.Context, username, password string) (models.Session, error)
	// SetAccessToken installs a token restored from a persisted session.
	SetAccessToken(token string)

	FetchRecords(ctx context.Context, category models.Category) ([]models.Record, error)
	PersistRecord(ctx context.Context, category models.Category, record models.Record) error
	UploadBulkFile(ctx context.Context, name string, content []byte, category models.Category) error
	// UploadEvidence stores a file against recordID and returns the name the
	// server saved it under.
	UploadEvidence(ctx context.Context, name string, content []byte, recordID string, category models.Category) (string, error)
	FetchUsers(ctx context.Context) ([]models.DirectoryEntry, error)
}
