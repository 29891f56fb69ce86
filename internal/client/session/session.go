// Package session keeps the signed-in user's session in the local database
// and answers the access questions the register engine asks before a
// mutation.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/repositories/metadata"
)

// ErrUnauthenticated means no usable session is stored; the caller has to
// log in before doing anything else.
var ErrUnauthenticated = errors.New("not logged in")

// Store persists the session blob in the metadata repository.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Save(ctx context.Context, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.repo.Set(ctx, metadata.KeySession, data)
}

// Load returns the stored session, or ErrUnauthenticated when there is none
// or it cannot be decoded.
func (s *Store) Load(ctx context.Context) (models.Session, error) {
	data, err := s.repo.Get(ctx, metadata.KeySession)
	if err != nil {
		return models.Session{}, err
	}
	if len(data) == 0 {
		return models.Session{}, ErrUnauthenticated
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, fmt.Errorf("%w: stored session unreadable", ErrUnauthenticated)
	}
	return sess, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, metadata.KeySession)
}
