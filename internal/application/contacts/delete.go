package contacts

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Delete removes an owned contact and returns it as it was.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) (domain.Contact, error) {
	if id <= 0 {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return s.repo.Delete(ctx, ownerID, id)
}
