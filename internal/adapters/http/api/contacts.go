package api

import (
	"context"
	"net/http"
)

// ContactDependencies defines the interface for contact CRUD.
type ContactDependencies interface {
	CreateContact(ctx context.Context, payload Contact) (Contact, error)
	ListContacts(ctx context.Context) ([]Contact, error)
	GetContact(ctx context.Context, id string) (Contact, error)
	UpdateContact(ctx context.Context, id string, payload Contact) (Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

type contactResponse struct {
	Message string  `json:"message"`
	Contact Contact `json:"contact"`
}

// ContactsHandler handles /api/contacts requests.
type ContactsHandler struct {
	deps   ContactDependencies
	bodies bodyDecoder
}

// NewContactsHandler creates a new contacts handler.
func NewContactsHandler(deps ContactDependencies, bodies bodyDecoder) *ContactsHandler {
	return &ContactsHandler{deps: deps, bodies: bodies}
}

// HandleCreate handles POST /api/contacts requests.
func (h *ContactsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_contact"
	payload, err := h.bodies.Decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.deps.CreateContact(r.Context(), payload)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, contactResponse{Message: "Contact created successfully", Contact: c})
}

// HandleList handles GET /api/contacts requests.
func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_contacts"
	list, err := h.deps.ListContacts(r.Context())
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	if list == nil {
		list = []Contact{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /api/contacts/{id} requests.
func (h *ContactsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_contact"
	c, err := h.deps.GetContact(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleUpdate handles PUT /api/contacts/{id} requests.
func (h *ContactsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_contact"
	payload, err := h.bodies.Decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.deps.UpdateContact(r.Context(), r.PathValue("id"), payload)
	if err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, contactResponse{Message: "Contact updated successfully", Contact: c})
}

// HandleDelete handles DELETE /api/contacts/{id} requests.
func (h *ContactsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_contact"
	if err := h.deps.DeleteContact(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeMessage(w, http.StatusOK, "Contact deleted successfully")
}
