package dto

import (
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

// UserResponse never carries the password hash or refresh token.
type UserResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Avatar         *string   `json:"avatar"`
	ConfirmedEmail bool      `json:"confirmed_email"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Avatar:         u.Avatar,
		ConfirmedEmail: u.ConfirmedEmail,
		CreatedAt:      u.CreatedAt,
	}
}
