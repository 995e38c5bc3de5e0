package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

// ContactRepo is an in-process contacts.ContactRepo.
type ContactRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Contact
}

func NewContactRepo() *ContactRepo {
	return &ContactRepo{byID: make(map[int64]domain.Contact)}
}

func (r *ContactRepo) List(ctx context.Context, userID int64, skip, limit int) ([]domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]domain.Contact, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			owned = append(owned, cloneContact(c))
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	if skip >= len(owned) {
		return []domain.Contact{}, nil
	}
	owned = owned[skip:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (r *ContactRepo) Get(ctx context.Context, userID, id int64) (domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return cloneContact(c), nil
}

func (r *ContactRepo) Create(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now().UTC()
	c = cloneContact(c)
	r.byID[c.ID] = c
	return cloneContact(c), nil
}

func (r *ContactRepo) Update(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[c.ID]
	if !ok || old.UserID != c.UserID {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	c.CreatedAt = old.CreatedAt
	r.byID[c.ID] = cloneContact(c)
	return cloneContact(c), nil
}

func (r *ContactRepo) Delete(ctx context.Context, userID, id int64) (domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	delete(r.byID, id)
	return c, nil
}

func cloneContact(c domain.Contact) domain.Contact {
	c.AdditionalInfo = cloneStr(c.AdditionalInfo)
	return c
}
