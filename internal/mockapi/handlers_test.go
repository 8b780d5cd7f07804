package mockapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/badgeclient/internal/config"
	"github.com/garnizeh/badgeclient/internal/mockapi"
	"github.com/garnizeh/badgeclient/pkg/models"
	"github.com/garnizeh/badgeclient/pkg/repository/mock"
)

const secret = "testsecret"

func serverConfig() config.ServerConfig {
	return config.ServerConfig{JWTSecret: secret, TokenDuration: time.Hour}
}

func reposOf(m *mock.Mocks) mockapi.Repos {
	return mockapi.Repos{Users: m.UserRepo, Badges: m.BadgeRepo, Certs: m.CertRepo}
}

func addUser(t *testing.T, m *mock.Mocks, username, password string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id, err := m.UserRepo.CreateUser(context.Background(), &models.Account{Username: username, PasswordHash: string(hash)})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return id
}

func signToken(t *testing.T, userID int64, key string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID, "exp": time.Now().Add(time.Hour).Unix()})
	s, err := tok.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func message(t *testing.T, b []byte) string {
	t.Helper()
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode message from %s: %v", string(b), err)
	}
	return m.Message
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		header     func(t *testing.T) string
		prepare    func(t *testing.T, m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Register_InvalidRequest",
			method:     http.MethodPost,
			path:       "/register",
			body:       "not a json object",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingPassword",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]any{"username": "ada"},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if got := message(t, b); got != "Username and password are required" {
					t.Fatalf("unexpected message %q", got)
				}
			},
		},
		{
			name:       "Register_Success",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]any{"username": "ada", "password": "pw", "email": nil, "full_name": "Ada"},
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte) {
				if got := message(t, b); got != "User registered successfully" {
					t.Fatalf("unexpected message %q", got)
				}
			},
		},
		{
			name:       "Register_Duplicate",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]any{"username": "ada", "password": "pw"},
			prepare:    func(t *testing.T, m *mock.Mocks) { addUser(t, m, "ada", "pw") },
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Register_StorageError",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]any{"username": "ada", "password": "pw"},
			prepare:    func(t *testing.T, m *mock.Mocks) { m.UserRepo.Err = errors.New("disk full") },
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Login_WrongPassword",
			method:     http.MethodPost,
			path:       "/login",
			body:       map[string]any{"username": "ada", "password": "nope"},
			prepare:    func(t *testing.T, m *mock.Mocks) { addUser(t, m, "ada", "pw") },
			wantStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, b []byte) {
				if got := message(t, b); got != "Invalid username or password" {
					t.Fatalf("unexpected message %q", got)
				}
			},
		},
		{
			name:       "Login_Success",
			method:     http.MethodPost,
			path:       "/login",
			body:       map[string]any{"username": "ada", "password": "pw"},
			prepare:    func(t *testing.T, m *mock.Mocks) { addUser(t, m, "ada", "pw") },
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var lr models.LoginResult
				if err := json.Unmarshal(b, &lr); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if lr.UserID == nil || *lr.UserID != 1 || lr.Token == nil {
					t.Fatalf("unexpected login result: %s", string(b))
				}
				tok, err := jwt.Parse(*lr.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
				if err != nil {
					t.Fatalf("parse token: %v", err)
				}
				claims, _ := tok.Claims.(jwt.MapClaims)
				if id, ok := claims["user_id"].(float64); !ok || int64(id) != 1 {
					t.Fatalf("missing user_id claim: %v", claims)
				}
			},
		},
		{
			name:       "Profile_NotFound",
			method:     http.MethodGet,
			path:       "/profile/42",
			wantStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, b []byte) {
				if got := message(t, b); got != "User not found" {
					t.Fatalf("unexpected message %q", got)
				}
			},
		},
		{
			name:   "Profile_Success",
			method: http.MethodGet,
			path:   "/profile/1",
			prepare: func(t *testing.T, m *mock.Mocks) {
				id := addUser(t, m, "ada", "pw")
				m.BadgeRepo.Catalog = []models.Badge{{BadgeID: 5, BadgeName: "Gopher"}}
				_ = m.BadgeRepo.AwardBadge(context.Background(), id, 5, "2024-03-01T10:00:00")
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var raw map[string]json.RawMessage
				if err := json.Unmarshal(b, &raw); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if string(raw["certifications"]) != "[]" {
					t.Fatalf("certifications must be an empty array, got %s", raw["certifications"])
				}
				var p models.ProfileSnapshot
				_ = json.Unmarshal(b, &p)
				if p.User.Username != "ada" || len(p.Badges) != 1 || p.Badges[0].BadgeName != "Gopher" {
					t.Fatalf("unexpected profile: %s", string(b))
				}
			},
		},
		{
			name:       "Update_NoFields",
			method:     http.MethodPut,
			path:       "/profile/1",
			body:       map[string]any{"full_name": nil, "profile_bio": nil},
			prepare:    func(t *testing.T, m *mock.Mocks) { addUser(t, m, "ada", "pw") },
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if got := message(t, b); got != "No update data provided" {
					t.Fatalf("unexpected message %q", got)
				}
			},
		},
		{
			name:       "Update_UnknownUser",
			method:     http.MethodPut,
			path:       "/profile/9",
			body:       map[string]any{"full_name": "X"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Update_Success",
			method:     http.MethodPut,
			path:       "/profile/1",
			body:       map[string]any{"profile_bio": "Math"},
			prepare:    func(t *testing.T, m *mock.Mocks) { addUser(t, m, "ada", "pw") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "Update_OtherUsersToken",
			method:     http.MethodPut,
			path:       "/profile/1",
			body:       map[string]any{"profile_bio": "Math"},
			header:     func(t *testing.T) string { return "Bearer " + signToken(t, 2, secret) },
			prepare:    func(t *testing.T, m *mock.Mocks) { addUser(t, m, "ada", "pw") },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "InvalidToken",
			method:     http.MethodGet,
			path:       "/badges",
			header:     func(t *testing.T) string { return "Bearer " + signToken(t, 1, "wrong-key") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Badges_List",
			method: http.MethodGet,
			path:   "/badges",
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.BadgeRepo.Catalog = []models.Badge{{BadgeID: 1, BadgeName: "A", Criteria: models.StringPtr("c")}}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte(`"badge_name":"A"`)) || bytes.Contains(b, []byte("criteria")) {
					t.Fatalf("unexpected catalog body: %s", string(b))
				}
			},
		},
		{
			name:       "Badge_NotFound",
			method:     http.MethodGet,
			path:       "/badges/3",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Achievement_NotImplemented",
			method:     http.MethodGet,
			path:       "/achievements/1",
			wantStatus: http.StatusNotImplemented,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(t, mocks)
			}
			router := mockapi.SetupRoutes(serverConfig(), reposOf(mocks))

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := httptest.NewRequest(tt.method, tt.path, bodyReader)
			if tt.header != nil {
				req.Header.Set("Authorization", tt.header(t))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}
