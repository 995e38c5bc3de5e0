package contacts

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

// List returns the owner's contacts ordered by id.
func (s *Service) List(ctx context.Context, ownerID int64, skip, limit int) ([]domain.Contact, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ownerID, skip, limit)
}
