package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"r4academy-backend-go/internal/models"
	"r4academy-backend-go/internal/services"
)

type ProfileDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

type ProfileUpdateRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	row := struct {
		ID        string  `db:"id"`
		Name      string  `db:"name"`
		Email     string  `db:"email"`
		Role      string  `db:"role"`
		Bio       *string `db:"bio"`
		AvatarURL *string `db:"avatar_url"`
	}{}
	if err := s.DB.Get(&row, `
SELECT u.id, u.name, u.email, u.role, p.bio, p.avatar_url
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
WHERE u.id = $1
`, CurrentUserID(r)); err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, ProfileDTO{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      row.Role,
		Bio:       row.Bio,
		AvatarURL: row.AvatarURL,
	})
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			WriteError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		if _, err := s.DB.Exec(`UPDATE users SET name = $1 WHERE id = $2`, name, userID); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	now := time.Now().UTC()
	profile := models.UserProfile{
		UserID:    userID,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		UpdatedAt: &now,
	}
	_, _ = s.DB.Exec(`
INSERT INTO user_profiles (user_id) VALUES ($1)
ON CONFLICT (user_id) DO NOTHING
`, profile.UserID)
	if _, err := s.DB.Exec(`
UPDATE user_profiles SET bio = $2, avatar_url = $3, updated_at = $4 WHERE user_id = $1
`, profile.UserID, profile.Bio, profile.AvatarURL, profile.UpdatedAt); err != nil {
		WriteServiceError(w, services.WrapError(err, "update profile"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
