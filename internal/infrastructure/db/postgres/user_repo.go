package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, refresh_token, confirmed_email, avatar, created_at`

// ---------- helpers ----------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Username,
		&ur.Email,
		&ur.PasswordHash,
		&ur.RefreshToken,
		&ur.ConfirmedEmail,
		&ur.Avatar,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:             ur.ID,
		Username:       ur.Username,
		Email:          ur.Email,
		PasswordHash:   ur.PasswordHash,
		RefreshToken:   nullStringPtr(ur.RefreshToken),
		ConfirmedEmail: ur.ConfirmedEmail,
		Avatar:         nullStringPtr(ur.Avatar),
		CreatedAt:      ur.CreatedAt,
	}
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrUserNotFound()
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = domain.NormalizeEmail(email)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (username, email, password_hash)
VALUES ($1,$2,$3)
RETURNING ` + userColumns + `;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, username, email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	const q = `
UPDATE users
SET refresh_token = $2
WHERE id = $1;
`
	var v sql.NullString
	if token != nil {
		v = sql.NullString{String: *token, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, q, userID, v)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// SwapRefreshToken is a compare-and-swap on the stored refresh token.
func (r *UserRepo) SwapRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	if oldToken == "" || newToken == "" {
		return false, nil
	}

	const q = `
UPDATE users
SET refresh_token = $3
WHERE id = $1 AND refresh_token = $2;
`
	res, err := r.db.ExecContext(ctx, q, userID, oldToken, newToken)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return n == 1, nil
}

func (r *UserRepo) SetConfirmedEmail(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	const q = `
UPDATE users
SET confirmed_email = TRUE
WHERE email = $1;
`
	res, err := r.db.ExecContext(ctx, q, email)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}
