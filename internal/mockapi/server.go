// Package mockapi serves a local stand-in for the catalog service: token login
// for a fixed set of users and bearer-protected product endpoints backed by an
// embedded fixture.
package mockapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"catalog/cli/internal/api"
	"catalog/cli/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:embed products.json
var fixture []byte

// DefaultUsers are the accounts accepted when Options.Users is empty.
var DefaultUsers = map[string]string{
	"admin123": "123admin",
	"mor_2314": "83r5^_",
}

// Options configures a Server.
type Options struct {
	Users    map[string]string
	Products []api.Product
	Logger   *slog.Logger
}

// Server is an http.Handler emulating the catalog service.
type Server struct {
	handler  http.Handler
	users    map[string]string
	products []api.Product
	logger   *slog.Logger

	mu     sync.RWMutex
	tokens map[string]string
}

// NewServer builds a Server. Zero options select the default users and the
// embedded product fixture.
func NewServer(opts Options) (*Server, error) {
	s := &Server{
		users:    opts.Users,
		products: opts.Products,
		logger:   opts.Logger,
		tokens:   map[string]string{},
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if len(s.users) == 0 {
		s.users = DefaultUsers
	}
	if s.products == nil {
		if err := json.Unmarshal(fixture, &s.products); err != nil {
			return nil, fmt.Errorf("decode product fixture: %w", err)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Post("/auth/login", s.login)
	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
	})
	s.handler = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Issue registers a token for username without a login round trip.
func (s *Server) Issue(username string) string {
	token := "tok-" + uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = username
	s.mu.Unlock()
	return token
}

// Revoke invalidates token. Later requests bearing it get 401.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *Server) valid(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "malformed request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "username and password are not provided in JSON format"})
		return
	}
	if want, ok := s.users[req.Username]; !ok || want != req.Password {
		writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "username or password is incorrect"})
		return
	}
	token := s.Issue(req.Username)
	s.logger.Debug("mock login", "username", req.Username, "token", logging.MaskToken(token))
	writeJSON(w, http.StatusCreated, api.LoginResponse{Token: token})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !s.valid(strings.TrimSpace(token)) {
			writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err == nil {
		for i := range s.products {
			if s.products[i].ID == id {
				writeJSON(w, http.StatusOK, s.products[i])
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
