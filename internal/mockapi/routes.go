// Package mockapi is a reference implementation of the badge service REST
// API, used for local development and end-to-end tests of the client.
package mockapi

import (
	"github.com/gorilla/mux"

	"github.com/garnizeh/badgeclient/internal/config"
	"github.com/garnizeh/badgeclient/pkg/repository"
)

// Repos groups the storage the backend needs.
type Repos struct {
	Users  repository.UserRepo
	Badges repository.BadgeRepo
	Certs  repository.CertificationRepo
}

func SetupRoutes(cfg config.ServerConfig, repos Repos) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(OptionalJWTMiddleware(cfg.JWTSecret))

	h := NewHandler(repos.Users, repos.Badges, repos.Certs, cfg.JWTSecret, cfg.TokenDuration)

	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")

	r.HandleFunc("/profile/{user_id:[0-9]+}", h.GetProfile).Methods("GET")
	r.HandleFunc("/profile/{user_id:[0-9]+}", h.UpdateProfile).Methods("PUT")

	r.HandleFunc("/badges", h.ListBadges).Methods("GET")
	r.HandleFunc("/badges/{badge_id:[0-9]+}", h.GetBadge).Methods("GET")

	r.HandleFunc("/achievements/{id:[0-9]+}", h.Achievement).Methods("GET")

	return r
}
