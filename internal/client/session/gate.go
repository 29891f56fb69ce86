package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
)

// DeriveRole reads the stored session once and returns its role. A missing
// session or an unknown role yields ErrUnauthenticated.
func DeriveRole(ctx context.Context, store *Store) (models.Role, error) {
	sess, err := store.Load(ctx)
	if err != nil {
		return "", err
	}
	if !sess.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrUnauthenticated, sess.Role)
	}
	return sess.Role, nil
}

// CanEditStatus reports whether role may change the status of a record that
// currently has status. Only admins may reopen a closed record.
func CanEditStatus(role models.Role, status models.Status) bool {
	return role == models.RoleAdmin || status != models.StatusClosed
}

// CanManageEvidence reports whether role may clear an attached evidence
// file.
func CanManageEvidence(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanImport reports whether role may bulk-import a register.
func CanImport(role models.Role) bool {
	return role == models.RoleAdmin
}
