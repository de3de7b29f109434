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

type LessonRequest struct {
	CourseID    string  `json:"courseId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	VideoRef    string  `json:"videoRef"`
	OrderIndex  int     `json:"orderIndex"`
}

type LessonDTO struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"courseId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	VideoRef    string  `json:"videoRef"`
	OrderIndex  int     `json:"orderIndex"`
	Completed   bool    `json:"completed"`
}

type CompleteLessonRequest struct {
	Completed bool `json:"completed"`
}

// ListLessons returns the course's lessons in display order joined with
// the caller's own progress. Ties on order_index fall back to id.
func (s *Server) ListLessons(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")
	if err := s.courseExists(courseID); err != nil {
		WriteServiceError(w, err)
		return
	}
	rows := []struct {
		models.Lesson
		Completed bool `db:"completed"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT l.id, l.course_id, l.title, l.description, l.video_ref, l.order_index,
       COALESCE(lp.completed, FALSE) AS completed
FROM lessons l
LEFT JOIN lesson_progress lp ON lp.lesson_id = l.id AND lp.user_id = $1
WHERE l.course_id = $2
ORDER BY l.order_index, l.id
`, CurrentUserID(r), courseID); err != nil {
		WriteServiceError(w, services.WrapError(err, "list lessons"))
		return
	}
	items := make([]LessonDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, LessonDTO{
			ID:          row.ID,
			CourseID:    row.CourseID,
			Title:       row.Title,
			Description: row.Description,
			VideoRef:    row.VideoRef,
			OrderIndex:  row.OrderIndex,
			Completed:   row.Completed,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]LessonDTO{"lessons": items})
}

func (s *Server) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req LessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	videoRef := strings.TrimSpace(req.VideoRef)
	if req.CourseID == "" || title == "" || videoRef == "" {
		WriteError(w, http.StatusBadRequest, "Course, title and video are required")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, req.CourseID); err != nil {
		WriteServiceError(w, services.WrapError(err, "check course"))
		return
	}
	if !exists {
		WriteServiceError(w, services.ErrBadRequest("Course does not exist"))
		return
	}
	lesson := models.Lesson{
		ID:          uuid.NewString(),
		CourseID:    req.CourseID,
		Title:       title,
		Description: req.Description,
		VideoRef:    videoRef,
		OrderIndex:  req.OrderIndex,
	}
	if _, err := s.DB.Exec(`
INSERT INTO lessons (id, course_id, title, description, video_ref, order_index)
VALUES ($1,$2,$3,$4,$5,$6)
`, lesson.ID, lesson.CourseID, lesson.Title, lesson.Description, lesson.VideoRef, lesson.OrderIndex); err != nil {
		WriteServiceError(w, services.WrapError(err, "create lesson"))
		return
	}
	WriteJSON(w, http.StatusOK, LessonDTO{
		ID:          lesson.ID,
		CourseID:    lesson.CourseID,
		Title:       lesson.Title,
		Description: lesson.Description,
		VideoRef:    lesson.VideoRef,
		OrderIndex:  lesson.OrderIndex,
	})
}

func (s *Server) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonId")
	var req LessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	videoRef := strings.TrimSpace(req.VideoRef)
	if title == "" || videoRef == "" {
		WriteError(w, http.StatusBadRequest, "Title and video are required")
		return
	}
	result, err := s.DB.Exec(`
UPDATE lessons SET title = $2, description = $3, video_ref = $4, order_index = $5 WHERE id = $1
`, lessonID, title, req.Description, videoRef, req.OrderIndex)
	if err != nil {
		WriteServiceError(w, services.WrapError(err, "update lesson"))
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteServiceError(w, services.ErrNotFound("Lesson not found"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonId")
	result, err := s.DB.Exec(`DELETE FROM lessons WHERE id = $1`, lessonID)
	if err != nil {
		WriteServiceError(w, services.WrapError(err, "delete lesson"))
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteServiceError(w, services.ErrNotFound("Lesson not found"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CompleteLesson upserts the caller's progress row. completed_at is set
// exactly when completed is true.
func (s *Server) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonId")
	var req CompleteLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM lessons WHERE id = $1)`, lessonID); err != nil {
		WriteServiceError(w, services.WrapError(err, "check lesson"))
		return
	}
	if !exists {
		WriteServiceError(w, services.ErrNotFound("Lesson not found"))
		return
	}
	progress := models.LessonProgress{
		UserID:    CurrentUserID(r),
		LessonID:  lessonID,
		Completed: req.Completed,
	}
	if req.Completed {
		now := time.Now().UTC()
		progress.CompletedAt = &now
	}
	if _, err := s.DB.Exec(`
INSERT INTO lesson_progress (user_id, lesson_id, completed, completed_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, lesson_id) DO UPDATE
SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at
`, progress.UserID, progress.LessonID, progress.Completed, progress.CompletedAt); err != nil {
		WriteServiceError(w, services.WrapError(err, "save progress"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// courseExists distinguishes a missing course from a store failure.
func (s *Server) courseExists(courseID string) error {
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, courseID); err != nil {
		return services.WrapError(err, "check course")
	}
	if !exists {
		return services.ErrNotFound("Course not found")
	}
	return nil
}
