package contacts

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

func (s *Service) Get(ctx context.Context, ownerID, id int64) (domain.Contact, error) {
	if id <= 0 {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return s.repo.Get(ctx, ownerID, id)
}
