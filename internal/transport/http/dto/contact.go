package dto

import (
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

const dateLayout = "2006-01-02"

// ContactRequest is the body of POST and PUT /api/contacts.
type ContactRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	PhoneNumber    string  `json:"phone_number" validate:"required,max=50"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	Birthdate      string  `json:"birthdate" validate:"required,datetime=2006-01-02"`
	AdditionalInfo *string `json:"additional_info" validate:"omitempty,max=500"`
}

// ToUpdate converts a validated request into a domain update.
func (r ContactRequest) ToUpdate() (domain.ContactUpdate, error) {
	bd, err := time.Parse(dateLayout, r.Birthdate)
	if err != nil {
		return domain.ContactUpdate{}, domain.ErrInvalidField("birthdate", "expected YYYY-MM-DD")
	}
	return domain.ContactUpdate{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		PhoneNumber:    r.PhoneNumber,
		Email:          r.Email,
		Birthdate:      bd,
		AdditionalInfo: r.AdditionalInfo,
	}, nil
}

type ContactResponse struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    string    `json:"phone_number"`
	Email          string    `json:"email"`
	Birthdate      string    `json:"birthdate"`
	AdditionalInfo *string   `json:"additional_info"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewContactResponse(c domain.Contact) ContactResponse {
	return ContactResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		PhoneNumber:    c.PhoneNumber,
		Email:          c.Email,
		Birthdate:      c.Birthdate.Format(dateLayout),
		AdditionalInfo: c.AdditionalInfo,
		CreatedAt:      c.CreatedAt,
	}
}

func NewContactList(cs []domain.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewContactResponse(c))
	}
	return out
}
