//go:build integration

package cases

import "github.com/baechuer/contacts-service/internal/application/auth"

func newVerifyEvent() auth.VerifyEmailEvent {
	return auth.VerifyEmailEvent{
		UserID:   1,
		Username: "it",
		Email:    "it@example.com",
		URL:      verifyBaseURL + "it-token-123",
	}
}
