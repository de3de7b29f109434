package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"r4academy-backend-go/internal/config"
	"r4academy-backend-go/internal/services"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    time.Duration(cfg.TokenTTLSeconds) * time.Second,
	}
	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Cakto-Signature"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		// Signature-gated, mounted ahead of the token-gated groups.
		api.Post("/webhooks/cakto", s.CaktoWebhook)

		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)

		api.Group(func(authed chi.Router) {
			authed.Use(WithAuth(s.Tokens))

			authed.Get("/auth/me", s.Me)
			authed.Get("/profile", s.GetProfile)
			authed.Put("/profile", s.UpdateProfile)

			authed.Get("/subscription/status", s.SubscriptionStatus)
			authed.Post("/payment/create-checkout", s.CreateCheckout)

			authed.Get("/courses", s.ListCourses)
			authed.Get("/courses/{courseId}/lessons", s.ListLessons)
			authed.Post("/lessons/{lessonId}/complete", s.CompleteLesson)

			authed.Group(func(admin chi.Router) {
				admin.Use(RequireAdmin)
				admin.Post("/courses", s.CreateCourse)
				admin.Put("/courses/{courseId}", s.UpdateCourse)
				admin.Delete("/courses/{courseId}", s.DeleteCourse)
				admin.Post("/lessons", s.CreateLesson)
				admin.Put("/lessons/{lessonId}", s.UpdateLesson)
				admin.Delete("/lessons/{lessonId}", s.DeleteLesson)
				admin.Get("/admin/metrics/history", s.MetricsHistory)
			})

			authed.Group(func(premium chi.Router) {
				premium.Use(s.RequireSubscription)
				premium.Get("/chat/history/{agentType}", s.ChatHistory)
				premium.Post("/chat/history", s.AppendChatMessage)
			})

			authed.Route("/community/posts", func(community chi.Router) {
				community.Get("/", s.ListPosts)
				community.Post("/", s.CreatePost)
				community.Post("/{postId}/like", s.ToggleLike)
				community.With(RequireAdmin).Post("/{postId}/pin", s.TogglePin)
				community.Post("/{postId}/comments", s.AddComment)
			})
		})
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
