// Package docstore exposes the document records kept alongside applications
// through the ports.DocumentStore boundary. Documents are registered via the
// application API; this adapter only reads them back for gate checks.
package docstore

import (
	"context"

	appDomain "amanah-mortgage-backend/internal/domain/application"
	"amanah-mortgage-backend/internal/domain/ports"
)

var _ ports.DocumentStore = (*Store)(nil)

type Store struct {
	apps appDomain.Repository
}

func New(apps appDomain.Repository) *Store {
	return &Store{apps: apps}
}

func (s *Store) GetDocuments(ctx context.Context, applicationID string) ([]appDomain.Document, error) {
	a, err := s.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return s.apps.GetDocuments(ctx, a.ID)
}
