package api

import (
	"context"
	"net/http"

	"github.com/okian/addressbook/internal/domain/interest"
)

// InterestDependencies defines the interface for the calculator endpoint.
type InterestDependencies interface {
	CompoundInterest(ctx context.Context, in interest.Input) interest.Result
}

// InterestHandler handles compound interest requests.
type InterestHandler struct {
	deps   InterestDependencies
	bodies bodyDecoder
}

// NewInterestHandler creates a new interest handler.
func NewInterestHandler(deps InterestDependencies, bodies bodyDecoder) *InterestHandler {
	return &InterestHandler{deps: deps, bodies: bodies}
}

// HandleCompoundInterest handles POST /api/compound-interest requests.
// Bad input is not rejected; it yields a null result.
func (h *InterestHandler) HandleCompoundInterest(w http.ResponseWriter, r *http.Request) {
	body, err := h.bodies.Decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CompoundInterest(r.Context(), interest.InputFrom(body)))
}
