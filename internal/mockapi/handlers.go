package mockapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/badgeclient/pkg/models"
	"github.com/garnizeh/badgeclient/pkg/repository"
)

// Handler serves the badge service REST API.
type Handler struct {
	users         repository.UserRepo
	badges        repository.BadgeRepo
	certs         repository.CertificationRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewHandler creates a Handler with required dependencies.
func NewHandler(users repository.UserRepo, badges repository.BadgeRepo, certs repository.CertificationRepo, jwtSecret string, tokenDuration time.Duration) *Handler {
	if tokenDuration <= 0 {
		tokenDuration = time.Hour
	}
	return &Handler{users: users, badges: badges, certs: certs, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Token   string `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Digital Badge System Backend is running!"))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	ctx := r.Context()

	exists, err := h.users.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		logger.Error("registration lookup", slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}
	if exists {
		writeMessage(w, http.StatusConflict, "Username or email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	account := models.Account{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FullName:     req.FullName,
	}
	if _, err := h.users.CreateUser(ctx, &account); err != nil {
		logger.Error("registration insert", slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	account, err := h.users.GetAccountByUsername(r.Context(), req.Username)
	if err != nil {
		logger.Error("login lookup", slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": account.UserID,
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", UserID: account.UserID, Token: tokenStr})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user_id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	ctx := r.Context()

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		logger.Error("profile lookup", slog.Int64("user_id", userID), slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred fetching profile")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	badges, err := h.badges.ListUserBadges(ctx, userID)
	if err != nil {
		logger.Error("profile badges", slog.Int64("user_id", userID), slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred fetching profile")
		return
	}
	certs, err := h.certs.ListUserCertifications(ctx, userID)
	if err != nil {
		logger.Error("profile certifications", slog.Int64("user_id", userID), slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred fetching profile")
		return
	}

	writeJSON(w, http.StatusOK, models.ProfileSnapshot{User: *user, Badges: badges, Certifications: certs})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user_id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found or no changes made")
		return
	}
	if tokenUser, verified := userFromContext(r.Context()); verified && tokenUser != userID {
		writeMessage(w, http.StatusForbidden, "Not allowed to update another user")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.FullName == nil && req.ProfileBio == nil {
		writeMessage(w, http.StatusBadRequest, "No update data provided")
		return
	}

	found, err := h.users.UpdateUserProfile(r.Context(), userID, req.FullName, req.ProfileBio)
	if err != nil {
		logger.Error("profile update", slog.Int64("user_id", userID), slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred updating profile")
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "User not found or no changes made")
		return
	}

	writeMessage(w, http.StatusOK, "Profile updated successfully")
}

func (h *Handler) ListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.badges.ListBadges(r.Context())
	if err != nil {
		logger.Error("badges listing", slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred fetching badges")
		return
	}

	writeJSON(w, http.StatusOK, badges)
}

func (h *Handler) GetBadge(w http.ResponseWriter, r *http.Request) {
	badgeID, ok := pathID(r, "badge_id")
	if !ok {
		writeMessage(w, http.StatusNotFound, "Badge not found")
		return
	}

	badge, err := h.badges.GetBadge(r.Context(), badgeID)
	if err != nil {
		logger.Error("badge details", slog.Int64("badge_id", badgeID), slog.Any("err", err))
		writeMessage(w, http.StatusInternalServerError, "An error occurred fetching badge details")
		return
	}
	if badge == nil {
		writeMessage(w, http.StatusNotFound, "Badge not found")
		return
	}

	writeJSON(w, http.StatusOK, badge)
}

// Achievement is reserved for shareable achievement links.
func (h *Handler) Achievement(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotImplemented, "Sharing endpoint requires more specific implementation based on achievement type")
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
