package http_handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/transport/http/dto"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
)

type ContactsHandler struct {
	svc *contacts.Service
}

func NewContactsHandler(svc *contacts.Service) *ContactsHandler {
	return &ContactsHandler{svc: svc}
}

// List handles GET /api/contacts?skip=&limit=
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	q := r.URL.Query()
	skip, err := queryInt(q.Get("skip"), "skip", 0)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	limit, err := queryInt(q.Get("limit"), "limit", contacts.DefaultLimit)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	items, err := h.svc.List(r.Context(), u.ID, skip, limit)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactList(items))
}

// Get handles GET /api/contacts/{contact_id}
func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), u.ID, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactResponse(c))
}

// Create handles POST /api/contacts
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	in, err := decodeContact(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), u.ID, in)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewContactResponse(c))
}

// Update handles PUT /api/contacts/{contact_id}
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	in, err := decodeContact(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), u.ID, id, in)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactResponse(c))
}

// Delete handles DELETE /api/contacts/{contact_id} and returns the removed contact.
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Delete(r.Context(), u.ID, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactResponse(c))
}

func (h *ContactsHandler) ownerAndID(w http.ResponseWriter, r *http.Request) (domain.User, int64, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return domain.User{}, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "contact_id"), 10, 64)
	if err != nil {
		response.WriteError(w, r, domain.ErrInvalidField("contact_id", "must be an integer"))
		return domain.User{}, 0, false
	}
	return u, id, true
}

func decodeContact(r *http.Request) (domain.ContactUpdate, error) {
	var req dto.ContactRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		return domain.ContactUpdate{}, err
	}
	if err := dto.Validate(&req); err != nil {
		return domain.ContactUpdate{}, err
	}
	return req.ToUpdate()
}

func queryInt(raw, field string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidField(field, "must be an integer")
	}
	return n, nil
}
