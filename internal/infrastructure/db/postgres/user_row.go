package postgres

import (
	"database/sql"
	"time"
)

type userRow struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	RefreshToken   sql.NullString
	ConfirmedEmail bool
	Avatar         sql.NullString
	CreatedAt      time.Time
}

type contactRow struct {
	ID             int64
	UserID         int64
	FirstName      string
	LastName       string
	PhoneNumber    string
	Email          string
	Birthdate      time.Time
	AdditionalInfo sql.NullString
	CreatedAt      time.Time
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
