package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/contacts-service/internal/domain"
)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

const contactColumns = `id, user_id, first_name, last_name, phone_number, email, birthdate, additional_info, created_at`

func scanContactRow(row rowScanner) (contactRow, error) {
	var cr contactRow
	err := row.Scan(
		&cr.ID,
		&cr.UserID,
		&cr.FirstName,
		&cr.LastName,
		&cr.PhoneNumber,
		&cr.Email,
		&cr.Birthdate,
		&cr.AdditionalInfo,
		&cr.CreatedAt,
	)
	return cr, err
}

func toDomainContact(cr contactRow) domain.Contact {
	return domain.Contact{
		ID:             cr.ID,
		UserID:         cr.UserID,
		FirstName:      cr.FirstName,
		LastName:       cr.LastName,
		PhoneNumber:    cr.PhoneNumber,
		Email:          cr.Email,
		Birthdate:      cr.Birthdate,
		AdditionalInfo: nullStringPtr(cr.AdditionalInfo),
		CreatedAt:      cr.CreatedAt,
	}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// singleContact maps a one-row contact query, turning "no rows" into contact_not_found.
func singleContact(row *sql.Row) (domain.Contact, error) {
	cr, err := scanContactRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, domain.ErrContactNotFound()
		}
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return toDomainContact(cr), nil
}

// ---------- contacts.ContactRepo ----------

func (r *ContactRepo) List(ctx context.Context, userID int64, skip, limit int) ([]domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1
ORDER BY id
OFFSET $2
LIMIT $3;
`
	rows, err := r.db.QueryContext(ctx, q, userID, skip, limit)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Contact, 0)
	for rows.Next() {
		cr, err := scanContactRow(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainContact(cr))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *ContactRepo) Get(ctx context.Context, userID, id int64) (domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
WHERE id = $1 AND user_id = $2;
`
	return singleContact(r.db.QueryRowContext(ctx, q, id, userID))
}

func (r *ContactRepo) Create(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	const q = `
INSERT INTO contacts (user_id, first_name, last_name, phone_number, email, birthdate, additional_info)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + contactColumns + `;
`
	return singleContact(r.db.QueryRowContext(ctx, q,
		c.UserID, c.FirstName, c.LastName, c.PhoneNumber, c.Email, c.Birthdate, nullableString(c.AdditionalInfo),
	))
}

func (r *ContactRepo) Update(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	const q = `
UPDATE contacts
SET first_name = $3,
    last_name = $4,
    phone_number = $5,
    email = $6,
    birthdate = $7,
    additional_info = $8
WHERE id = $1 AND user_id = $2
RETURNING ` + contactColumns + `;
`
	return singleContact(r.db.QueryRowContext(ctx, q,
		c.ID, c.UserID, c.FirstName, c.LastName, c.PhoneNumber, c.Email, c.Birthdate, nullableString(c.AdditionalInfo),
	))
}

func (r *ContactRepo) Delete(ctx context.Context, userID, id int64) (domain.Contact, error) {
	const q = `
DELETE FROM contacts
WHERE id = $1 AND user_id = $2
RETURNING ` + contactColumns + `;
`
	return singleContact(r.db.QueryRowContext(ctx, q, id, userID))
}
