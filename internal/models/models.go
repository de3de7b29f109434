package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"

	PlanPremium = "premium"
)

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type UserProfile struct {
	UserID    string     `db:"user_id"`
	Bio       *string    `db:"bio"`
	AvatarURL *string    `db:"avatar_url"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// Subscription holds at most one row per user. status=active implies
// expires_at was in the future at the last gated read; the gate flips
// it to inactive when it observes a past expiry.
type Subscription struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Status    string    `db:"status"`
	PlanType  string    `db:"plan_type"`
	ExpiresAt time.Time `db:"expires_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Course struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Description  *string   `db:"description"`
	ThumbnailURL *string   `db:"thumbnail_url"`
	CreatedAt    time.Time `db:"created_at"`
}

type Lesson struct {
	ID          string  `db:"id"`
	CourseID    string  `db:"course_id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	VideoRef    string  `db:"video_ref"`
	OrderIndex  int     `db:"order_index"`
}

type LessonProgress struct {
	UserID      string     `db:"user_id"`
	LessonID    string     `db:"lesson_id"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at"`
}

// ChatMessage rows are append-only, read back in creation order.
type ChatMessage struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	AgentType string    `db:"agent_type"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	ImageRef  *string   `db:"image_ref"`
	CreatedAt time.Time `db:"created_at"`
}

type CommunityPost struct {
	ID        string    `db:"id"`
	AuthorID  string    `db:"author_id"`
	Content   string    `db:"content"`
	Pinned    bool      `db:"pinned"`
	CreatedAt time.Time `db:"created_at"`
}

type PostComment struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	AuthorID  string    `db:"author_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
