// Package devserver is an in-memory stand-in for the production backend.
// It serves the same REST surface the client talks to, with the same error
// envelope, so the offline/online flow can be exercised end to end on a
// laptop. Data lives in process memory only.
package devserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dukaanly/possync/internal/common"
)

type Server struct {
	secret   []byte
	tokenTTL time.Duration
	store    *memStore
}

// New builds a Server signing tokens with secret. Tokens expire after
// tokenTTL; pass 0 for the 24h default.
func New(secret []byte, tokenTTL time.Duration) *Server {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Server{secret: secret, tokenTTL: tokenTTL, store: newMemStore()}
}

// Router returns the full route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/auth/me", s.handleMe)

		for _, entity := range []string{"bills", "products", "customers"} {
			entity := entity
			r.Route("/"+entity, func(r chi.Router) {
				r.Get("/", s.handleList(entity))
				r.Post("/", s.handleCreate(entity))
				r.Put("/{id}", s.handleUpdate(entity))
				r.Delete("/{id}", s.handleDelete(entity))
			})
		}
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the {"detail": ...} envelope the client understands.
// detail is either a string or a list of field errors.
func writeError(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

type fieldError struct {
	Msg  string `json:"msg"`
	Loc  []any  `json:"loc,omitempty"`
	Type string `json:"type,omitempty"`
}

func (s *Server) issueToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		"iat": jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// requireAuth validates the bearer token and stashes the username in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if len(header) <= len(common.BearerPrefix) {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		raw := header[len(common.BearerPrefix):]

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		username, _ := claims["sub"].(string)
		if _, ok := s.store.findUser(username); !ok {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUsername(r.Context(), username)))
	})
}
