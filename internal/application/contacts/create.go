package contacts

import (
	"context"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

func (s *Service) Create(ctx context.Context, ownerID int64, in domain.ContactUpdate) (domain.Contact, error) {
	in = normalize(in)
	if err := validateFields(in); err != nil {
		return domain.Contact{}, err
	}

	c := domain.Contact{UserID: ownerID}
	c.Apply(in)
	return s.repo.Create(ctx, c)
}

func normalize(in domain.ContactUpdate) domain.ContactUpdate {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Email = domain.NormalizeEmail(in.Email)
	return in
}

func validateFields(in domain.ContactUpdate) error {
	switch {
	case in.FirstName == "":
		return domain.ErrMissingField("first_name")
	case in.LastName == "":
		return domain.ErrMissingField("last_name")
	case in.PhoneNumber == "":
		return domain.ErrMissingField("phone_number")
	case in.Email == "":
		return domain.ErrMissingField("email")
	case in.Birthdate.IsZero():
		return domain.ErrMissingField("birthdate")
	}
	return nil
}
