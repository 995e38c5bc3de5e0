package contacts

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

// ContactRepo stores contacts. Every lookup is scoped by owner; a contact that
// belongs to another user is reported as contact_not_found.
type ContactRepo interface {
	List(ctx context.Context, userID int64, skip, limit int) ([]domain.Contact, error)
	Get(ctx context.Context, userID, id int64) (domain.Contact, error)
	Create(ctx context.Context, c domain.Contact) (domain.Contact, error)
	Update(ctx context.Context, c domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, userID, id int64) (domain.Contact, error)
}
