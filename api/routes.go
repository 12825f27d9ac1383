package api

import (
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/config"
	"github.com/NeGaTiVe369/DocLearn-sub000/internal/schema"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/gorilla/mux"
)

// Repos bundles the repository implementations the handlers depend on.
type Repos struct {
	Accounts      repository.AccountRepo
	Profiles      repository.ProfileRepo
	Uploads       repository.UploadRepo
	Announcements repository.AnnouncementRepo
	Moderation    repository.ModerationRepo
}

func SetupRoutes(cfg *config.Config, version, buildTime string, repos Repos, schemas *schema.Loader, queue Enqueuer) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repos.Accounts, repos.Profiles, cfg.JWTSecret, cfg.TokenDuration)
	profileHandler := NewProfileHandler(repos.Profiles, repos.Moderation, schemas)
	avatarHandler := NewAvatarHandler(repos.Uploads, repos.Profiles)
	announcementsHandler := NewAnnouncementsHandler(repos.Announcements)
	adminHandler := NewAdminHandler(repos.Moderation, repos.Announcements, queue)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/avatars/{id}", avatarHandler.Serve).Methods("GET")

	// Profile endpoints keep their legacy paths outside the /v1 prefix
	user := r.PathPrefix("/user").Subrouter()
	user.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))
	user.HandleFunc("/me", profileHandler.Me).Methods("GET")
	user.HandleFunc("/update-my-profile", profileHandler.UpdateMyProfile).Methods("POST")
	user.HandleFunc("/avatar", avatarHandler.Upload).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Announcements endpoints
	apiV1.HandleFunc("/announcements", announcementsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/announcements", announcementsHandler.List).Methods("GET")
	apiV1.HandleFunc("/announcements/my", announcementsHandler.ListMine).Methods("GET")
	apiV1.HandleFunc("/announcements/{id}", announcementsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/announcements/{id}", announcementsHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/announcements/{id}", announcementsHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/announcements/{id}/publish", announcementsHandler.Publish).Methods("POST")

	// Admin endpoints
	admin := apiV1.PathPrefix("/admin").Subrouter()
	admin.Use(AdminOnlyMiddleware)
	admin.HandleFunc("/moderation", adminHandler.ListModeration).Methods("GET")
	admin.HandleFunc("/moderation/{id}/approve", adminHandler.ApproveModeration).Methods("POST")
	admin.HandleFunc("/moderation/{id}/reject", adminHandler.RejectModeration).Methods("POST")
	admin.HandleFunc("/announcements", adminHandler.ListPendingAnnouncements).Methods("GET")
	admin.HandleFunc("/announcements/{id}/approve", adminHandler.ApproveAnnouncement).Methods("POST")
	admin.HandleFunc("/announcements/{id}/reject", adminHandler.RejectAnnouncement).Methods("POST")

	return r
}
