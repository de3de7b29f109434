package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"r4academy-backend-go/internal/models"
	"r4academy-backend-go/internal/services"
)

type PostDTO struct {
	ID        string       `json:"id"`
	Author    string       `json:"author"`
	Content   string       `json:"content"`
	Pinned    bool         `json:"pinned"`
	Likes     int          `json:"likes"`
	Liked     bool         `json:"liked"`
	Comments  []CommentDTO `json:"comments"`
	CreatedAt time.Time    `json:"createdAt"`
}

type CommentDTO struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostCreateRequest struct {
	Content string `json:"content"`
}

type CommentCreateRequest struct {
	Content string `json:"content"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// ListPosts returns the feed newest first with pinned posts on top. Like
// counts come from counting rows, so they cannot drift negative.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	rows := []struct {
		models.CommunityPost
		Author string `db:"author"`
		Likes  int    `db:"likes"`
		Liked  bool   `db:"liked"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT p.id, p.author_id, u.name AS author, p.content, p.pinned, p.created_at,
       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes,
       EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS liked
FROM community_posts p
JOIN users u ON u.id = p.author_id
ORDER BY p.pinned DESC, p.created_at DESC
`, userID); err != nil {
		WriteServiceError(w, services.WrapError(err, "list posts"))
		return
	}
	items := make([]PostDTO, 0, len(rows))
	for _, row := range rows {
		comments, err := s.fetchComments(row.ID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		items = append(items, PostDTO{
			ID:        row.ID,
			Author:    row.Author,
			Content:   row.Content,
			Pinned:    row.Pinned,
			Likes:     row.Likes,
			Liked:     row.Liked,
			Comments:  comments,
			CreatedAt: row.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]PostDTO{"posts": items})
}

func (s *Server) fetchComments(postID string) ([]CommentDTO, error) {
	rows := []struct {
		models.PostComment
		Author string `db:"author"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT c.id, c.post_id, c.author_id, u.name AS author, c.content, c.created_at
FROM post_comments c
JOIN users u ON u.id = c.author_id
WHERE c.post_id = $1
ORDER BY c.created_at ASC
`, postID); err != nil {
		return nil, services.WrapError(err, "list comments")
	}
	comments := make([]CommentDTO, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, CommentDTO{
			ID:        row.ID,
			Author:    row.Author,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	return comments, nil
}

func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		WriteError(w, http.StatusBadRequest, "Content is required")
		return
	}
	post := models.CommunityPost{
		ID:        uuid.NewString(),
		AuthorID:  CurrentUserID(r),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.DB.Exec(`
INSERT INTO community_posts (id, author_id, content, pinned, created_at)
VALUES ($1,$2,$3,$4,$5)
`, post.ID, post.AuthorID, post.Content, post.Pinned, post.CreatedAt); err != nil {
		WriteServiceError(w, services.WrapError(err, "create post"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": post.ID})
}

// postExists distinguishes a missing post from a store failure so the
// former answers 404 and the latter 500.
func (s *Server) postExists(postID string) error {
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM community_posts WHERE id = $1)`, postID); err != nil {
		return services.WrapError(err, "check post")
	}
	if !exists {
		return services.ErrNotFound("Post not found")
	}
	return nil
}

// ToggleLike flips the caller's like on a post. The toggle is symmetric:
// two calls always restore the original count.
func (s *Server) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	userID := CurrentUserID(r)
	if err := s.postExists(postID); err != nil {
		WriteServiceError(w, err)
		return
	}
	result, err := s.DB.Exec(`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		WriteServiceError(w, services.WrapError(err, "unlike post"))
		return
	}
	liked := false
	if deleted, _ := result.RowsAffected(); deleted == 0 {
		if _, err := s.DB.Exec(`
INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1,$2,$3)
ON CONFLICT (post_id, user_id) DO NOTHING
`, postID, userID, time.Now().UTC()); err != nil {
			WriteServiceError(w, services.WrapError(err, "like post"))
			return
		}
		liked = true
	}
	var likes int
	if err := s.DB.Get(&likes, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID); err != nil {
		WriteServiceError(w, services.WrapError(err, "count likes"))
		return
	}
	WriteJSON(w, http.StatusOK, LikeResponse{Liked: liked, Likes: likes})
}

// TogglePin flips the pinned flag. The admin gate runs before this
// handler, so a non-admin caller never reaches the update.
func (s *Server) TogglePin(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	var pinned bool
	err := s.DB.Get(&pinned, `SELECT pinned FROM community_posts WHERE id = $1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		WriteServiceError(w, services.ErrNotFound("Post not found"))
		return
	}
	if err != nil {
		WriteServiceError(w, services.WrapError(err, "read pin state"))
		return
	}
	if _, err := s.DB.Exec(`UPDATE community_posts SET pinned = $2 WHERE id = $1`, postID, !pinned); err != nil {
		WriteServiceError(w, services.WrapError(err, "toggle pin"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"pinned": !pinned})
}

func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	var req CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		WriteError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if err := s.postExists(postID); err != nil {
		WriteServiceError(w, err)
		return
	}
	comment := models.PostComment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  CurrentUserID(r),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.DB.Exec(`
INSERT INTO post_comments (id, post_id, author_id, content, created_at)
VALUES ($1,$2,$3,$4,$5)
`, comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt); err != nil {
		WriteServiceError(w, services.WrapError(err, "create comment"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": comment.ID})
}
