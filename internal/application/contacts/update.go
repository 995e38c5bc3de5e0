package contacts

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

// Update replaces every mutable field of an owned contact.
func (s *Service) Update(ctx context.Context, ownerID, id int64, in domain.ContactUpdate) (domain.Contact, error) {
	in = normalize(in)
	if err := validateFields(in); err != nil {
		return domain.Contact{}, err
	}

	c, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return domain.Contact{}, err
	}
	c.Apply(in)
	return s.repo.Update(ctx, c)
}
