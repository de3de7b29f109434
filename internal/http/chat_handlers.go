package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"r4academy-backend-go/internal/models"
	"r4academy-backend-go/internal/services"
)

type ChatMessageDTO struct {
	ID        string    `json:"id"`
	AgentType string    `json:"agentType"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageRef  *string   `json:"imageRef"`
	CreatedAt time.Time `json:"createdAt"`
}

type AppendChatRequest struct {
	AgentType string  `json:"agentType"`
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	ImageRef  *string `json:"imageRef"`
}

// ChatHistory returns the caller's messages with one agent in creation
// order. History is append-only; there is no edit or delete.
func (s *Server) ChatHistory(w http.ResponseWriter, r *http.Request) {
	agentType := chi.URLParam(r, "agentType")
	rows := []models.ChatMessage{}
	if err := s.DB.Select(&rows, `
SELECT id, user_id, agent_type, role, content, image_ref, created_at
FROM chat_messages
WHERE user_id = $1 AND agent_type = $2
ORDER BY created_at ASC
`, CurrentUserID(r), agentType); err != nil {
		WriteServiceError(w, services.WrapError(err, "load chat history"))
		return
	}
	items := make([]ChatMessageDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ChatMessageDTO{
			ID:        row.ID,
			AgentType: row.AgentType,
			Role:      row.Role,
			Content:   row.Content,
			ImageRef:  row.ImageRef,
			CreatedAt: row.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]ChatMessageDTO{"messages": items})
}

func (s *Server) AppendChatMessage(w http.ResponseWriter, r *http.Request) {
	var req AppendChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	agentType := strings.TrimSpace(req.AgentType)
	content := strings.TrimSpace(req.Content)
	if agentType == "" || content == "" {
		WriteError(w, http.StatusBadRequest, "Agent type and content are required")
		return
	}
	if req.Role != "user" && req.Role != "assistant" {
		WriteError(w, http.StatusBadRequest, "Role must be user or assistant")
		return
	}
	messageID := uuid.NewString()
	if _, err := s.DB.Exec(`
INSERT INTO chat_messages (id, user_id, agent_type, role, content, image_ref, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, messageID, CurrentUserID(r), agentType, req.Role, content, req.ImageRef, time.Now().UTC()); err != nil {
		WriteServiceError(w, services.WrapError(err, "save chat message"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": messageID})
}
