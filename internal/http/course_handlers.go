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

type CourseRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

type CourseDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	LessonCount  int       `json:"lessonCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Server) ListCourses(w http.ResponseWriter, r *http.Request) {
	rows := []struct {
		models.Course
		LessonCount int `db:"lesson_count"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT c.id, c.title, c.description, c.thumbnail_url, c.created_at,
       COUNT(l.id) AS lesson_count
FROM courses c
LEFT JOIN lessons l ON l.course_id = c.id
GROUP BY c.id
ORDER BY c.created_at DESC
`); err != nil {
		WriteServiceError(w, services.WrapError(err, "list courses"))
		return
	}
	items := make([]CourseDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, CourseDTO{
			ID:           row.ID,
			Title:        row.Title,
			Description:  row.Description,
			ThumbnailURL: row.ThumbnailURL,
			LessonCount:  row.LessonCount,
			CreatedAt:    row.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]CourseDTO{"courses": items})
}

func (s *Server) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	course := models.Course{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.DB.Exec(`
INSERT INTO courses (id, title, description, thumbnail_url, created_at)
VALUES ($1,$2,$3,$4,$5)
`, course.ID, course.Title, course.Description, course.ThumbnailURL, course.CreatedAt); err != nil {
		WriteServiceError(w, services.WrapError(err, "create course"))
		return
	}
	WriteJSON(w, http.StatusOK, CourseDTO{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		ThumbnailURL: course.ThumbnailURL,
		CreatedAt:    course.CreatedAt,
	})
}

func (s *Server) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	result, err := s.DB.Exec(`
UPDATE courses SET title = $2, description = $3, thumbnail_url = $4 WHERE id = $1
`, courseID, title, req.Description, req.ThumbnailURL)
	if err != nil {
		WriteServiceError(w, services.WrapError(err, "update course"))
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteServiceError(w, services.ErrNotFound("Course not found"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	result, err := s.DB.Exec(`DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		WriteServiceError(w, services.WrapError(err, "delete course"))
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteServiceError(w, services.ErrNotFound("Course not found"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
