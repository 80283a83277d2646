package devserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const usernameKey ctxKey = 0

func withUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

func usernameFrom(ctx context.Context) string {
	s, _ := ctx.Value(usernameKey).(string)
	return s
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	ShopName string `json:"shop_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var fields []fieldError
	if req.Username == "" {
		fields = append(fields, fieldError{Msg: "field required", Loc: []any{"body", "username"}, Type: "missing"})
	}
	if req.Password == "" {
		fields = append(fields, fieldError{Msg: "field required", Loc: []any{"body", "password"}, Type: "missing"})
	}
	if fields != nil {
		writeError(w, http.StatusUnprocessableEntity, fields)
		return
	}

	u, ok := s.store.addUser(req.Username, req.Password, req.ShopName)
	if !ok {
		writeError(w, http.StatusBadRequest, "username already registered")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id": u.ID, "username": u.Username, "shop_name": u.ShopName,
	})
}

// handleLogin accepts form-encoded credentials, matching the production
// token endpoint.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, ok := s.store.findUser(username)
	if !ok || u.Password != password {
		writeError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	token, err := s.issueToken(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.findUser(usernameFrom(r.Context()))
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id": u.ID, "username": u.Username, "shop_name": u.ShopName,
	})
}

func (s *Server) handleList(entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.store.list(entity))
	}
}

func (s *Server) handleCreate(entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := decodeRow(w, r, entity)
		if !ok {
			return
		}
		writeJSON(w, http.StatusCreated, s.store.insert(entity, row))
	}
}

func (s *Server) handleUpdate(entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		row, ok := decodeRow(w, r, entity)
		if !ok {
			return
		}
		updated, found := s.store.replace(entity, id, row)
		if !found {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) handleDelete(entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !s.store.remove(entity, id) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeRow parses the body and applies per-entity validation. On failure
// it writes the error response and returns ok=false.
func decodeRow(w http.ResponseWriter, r *http.Request, entity string) (map[string]any, bool) {
	var row map[string]any
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if row == nil {
		row = map[string]any{}
	}

	var fields []fieldError
	switch entity {
	case "products", "customers":
		if name, _ := row["name"].(string); name == "" {
			fields = append(fields, fieldError{Msg: "field required", Loc: []any{"body", "name"}, Type: "missing"})
		}
	case "bills":
		if _, ok := row["total"].(float64); !ok {
			fields = append(fields, fieldError{Msg: "field required", Loc: []any{"body", "total"}, Type: "missing"})
		}
	}
	if entity == "products" {
		if _, ok := row["price"].(float64); !ok {
			fields = append(fields, fieldError{Msg: "field required", Loc: []any{"body", "price"}, Type: "missing"})
		}
	}

	if fields != nil {
		writeError(w, http.StatusUnprocessableEntity, fields)
		return nil, false
	}
	return row, true
}
