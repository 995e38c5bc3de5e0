package contacts

import (
	"strconv"

	"github.com/baechuer/contacts-service/internal/domain"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type Service struct {
	repo ContactRepo
}

func New(repo ContactRepo) *Service {
	return &Service{repo: repo}
}

func validatePage(skip, limit int) error {
	if skip < 0 {
		return domain.ErrInvalidField("skip", "must be >= 0")
	}
	if limit < 1 || limit > MaxLimit {
		return domain.ErrInvalidField("limit", "must be between 1 and "+strconv.Itoa(MaxLimit))
	}
	return nil
}
