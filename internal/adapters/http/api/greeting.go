package api

import (
	"io"
	"net/http"
)

const greetingHTML = "<h1>Hello World!</h1>"

// GreetingHandler serves the static greeting.
type GreetingHandler struct{}

// NewGreetingHandler creates a new greeting handler.
func NewGreetingHandler() *GreetingHandler {
	return &GreetingHandler{}
}

// HandleGreeting handles GET /api requests.
func (h *GreetingHandler) HandleGreeting(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, greetingHTML)
}
