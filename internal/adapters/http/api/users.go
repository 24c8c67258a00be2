package api

import (
	"net/http"
	"time"

	"github.com/okian/addressbook/pkg/metrics"
)

// isoMillis matches the UTC timestamp format used in user receipts.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// userReceipt acknowledges POST /api/users. Nothing is stored.
type userReceipt struct {
	Message string  `json:"message"`
	Date    string  `json:"date"`
	User    Contact `json:"user"`
}

// UsersHandler echoes submitted users.
type UsersHandler struct {
	clock  Clock
	bodies bodyDecoder
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(clock Clock, bodies bodyDecoder) *UsersHandler {
	return &UsersHandler{clock: clock, bodies: bodies}
}

// HandleCreateUser handles POST /api/users requests.
func (h *UsersHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.bodies.Decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordUserEcho()

	writeJSON(w, http.StatusOK, userReceipt{
		Message: "User created successfully",
		Date:    h.clock.Now().UTC().Format(isoMillis),
		User:    user,
	})
}
