// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/okian/addressbook/internal/adapters/repository"
	"github.com/okian/addressbook/internal/domain/contact"
	"github.com/okian/addressbook/pkg/logger"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ContactDependencies
	InterestDependencies

	// Now is the clock used for response timestamps.
	Now() time.Time
}

// Contact mirrors the schema-less record stored by the service.
type Contact = contact.Contact

// Server wires HTTP routes for the business API.
type Server struct {
	greetingHandler *GreetingHandler
	usersHandler    *UsersHandler
	interestHandler *InterestHandler
	contactsHandler *ContactsHandler
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxBodyBytes int64
}

// WithMaxBodyBytes caps how much of a request body handlers read.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	bodies := bodyDecoder{limit: cfg.maxBodyBytes}

	return &Server{
		greetingHandler: NewGreetingHandler(),
		usersHandler:    NewUsersHandler(deps, bodies),
		interestHandler: NewInterestHandler(deps, bodies),
		contactsHandler: NewContactsHandler(deps, bodies),
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api", MetricsMiddleware(s.greetingHandler.HandleGreeting, "/api"))
	mux.HandleFunc("POST /api/users", MetricsMiddleware(s.usersHandler.HandleCreateUser, "/api/users"))
	mux.HandleFunc("POST /api/compound-interest", MetricsMiddleware(s.interestHandler.HandleCompoundInterest, "/api/compound-interest"))

	mux.HandleFunc("POST /api/contacts", MetricsMiddleware(s.contactsHandler.HandleCreate, "/api/contacts"))
	mux.HandleFunc("GET /api/contacts", MetricsMiddleware(s.contactsHandler.HandleList, "/api/contacts"))
	mux.HandleFunc("GET /api/contacts/{id}", MetricsMiddleware(s.contactsHandler.HandleGet, "/api/contacts/{id}"))
	mux.HandleFunc("PUT /api/contacts/{id}", MetricsMiddleware(s.contactsHandler.HandleUpdate, "/api/contacts/{id}"))
	mux.HandleFunc("DELETE /api/contacts/{id}", MetricsMiddleware(s.contactsHandler.HandleDelete, "/api/contacts/{id}"))

	logger.Get().Debug(ctx, "api routes registered")
}

// messageResponse is the body of every acknowledgement and error.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps service errors onto the two failure responses clients see.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Contact not found")
		return
	}
	if errors.Is(err, ErrTooLarge) {
		writeMessage(w, http.StatusRequestEntityTooLarge, ErrTooLarge.Error())
		return
	}
	logger.Get().Error(r.Context(), "request failed",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.String("requestId", RequestIDFromContext(r.Context())),
		logger.Error(err),
	)
	writeMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// bodyDecoder turns request bodies into records. It never rejects a body
// under the limit: anything it cannot read as an object becomes an empty
// record, and bodies of other media types are not read at all.
type bodyDecoder struct {
	limit int64
}

const (
	formContentType = "application/x-www-form-urlencoded"
	jsonContentType = "application/json"
)

// Decode reads r's body as a record.
func (d bodyDecoder) Decode(w http.ResponseWriter, r *http.Request) (Contact, error) {
	const op = "api.decode_body"
	if r.Body == nil || r.Body == http.NoBody {
		return Contact{}, nil
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case formContentType, jsonContentType:
	default:
		return Contact{}, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, d.limit)

	if mediaType == formContentType {
		rec, err := d.decodeForm(r)
		if isTooLarge(err) {
			return nil, WrapKind(op, ErrTooLarge, err)
		}
		return rec, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		if isTooLarge(err) {
			return nil, WrapKind(op, ErrTooLarge, err)
		}
		return Contact{}, nil
	}
	if len(raw) == 0 {
		return Contact{}, nil
	}

	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
		return Contact{}, nil
	}
	return Contact(rec), nil
}

// decodeForm keeps single values as strings and repeated keys as string arrays.
func (d bodyDecoder) decodeForm(r *http.Request) (Contact, error) {
	rec := Contact{}
	if err := r.ParseForm(); err != nil {
		return rec, err
	}
	for key, values := range r.PostForm {
		switch len(values) {
		case 0:
		case 1:
			rec[key] = values[0]
		default:
			list := make([]any, len(values))
			for i, v := range values {
				list[i] = v
			}
			rec[key] = list
		}
	}
	return rec, nil
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
