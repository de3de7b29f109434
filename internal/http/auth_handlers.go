package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"r4academy-backend-go/internal/models"
	"r4academy-backend-go/internal/services"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	User      UserDTO `json:"user"`
	Token     string  `json:"token"`
	ExpiresAt int64   `json:"expiresAt"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, email); err != nil {
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	if exists {
		WriteError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	hash, err := services.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	role := models.RoleUser
	if s.Config.IsAdminEmail(email) {
		role = models.RoleAdmin
	}
	userID := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.DB.Exec(`
INSERT INTO users (id, name, email, password_hash, role, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, userID, name, email, hash, role, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	// A missing profile row is repaired by the profile upsert later, but
	// the failure should not pass silently.
	if _, err := s.DB.Exec(`INSERT INTO user_profiles (user_id) VALUES ($1)`, userID); err != nil {
		log.Printf("register: create profile for %s: %v", userID, err)
	}

	token, exp, err := s.Tokens.CreateToken(userID, email, role)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	WriteJSON(w, http.StatusOK, AuthResponse{
		User:      UserDTO{ID: userID, Name: name, Email: email, Role: role},
		Token:     token,
		ExpiresAt: exp,
	})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	row := models.User{}
	if err := s.DB.Get(&row, `
SELECT id, name, email, password_hash, role, created_at
FROM users
WHERE lower(email) = $1
`, email); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !services.VerifyPassword(req.Password, row.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, exp, err := s.Tokens.CreateToken(row.ID, row.Email, row.Role)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	WriteJSON(w, http.StatusOK, AuthResponse{
		User:      UserDTO{ID: row.ID, Name: row.Name, Email: row.Email, Role: row.Role},
		Token:     token,
		ExpiresAt: exp,
	})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	row := struct {
		ID    string `db:"id"`
		Name  string `db:"name"`
		Email string `db:"email"`
		Role  string `db:"role"`
	}{}
	if err := s.DB.Get(&row, `SELECT id, name, email, role FROM users WHERE id = $1`, CurrentUserID(r)); err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]UserDTO{"user": {
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Role:  row.Role,
	}})
}
