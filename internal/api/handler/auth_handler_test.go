package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prepsim/internal/api/middleware"
	"prepsim/internal/app/service"
	"prepsim/internal/common"
	"prepsim/internal/common/security"
	"prepsim/internal/domain/model"
	"prepsim/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type memUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*model.User{}, byEmail: map[string]*model.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return common.ErrConflict
	}
	cp := *user
	m.byID[user.ID] = &cp
	m.byEmail[user.Email] = &cp
	return nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newAuthTestRouter() http.Handler {
	if security.TokenAuth == nil {
		config.AppConfig = &config.Config{
			JWTKey: []byte("handler-test-secret"),
			JWTExp: time.Hour,
		}
		security.InitJWT()
	}

	authHandler := NewAuthHandler(service.NewAuthService(newMemUserRepo()))

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Route("/auth", func(auth chi.Router) {
		authHandler.RegisterRoutes(auth, nil)
		auth.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator)
			authHandler.RegisterProtectedRoutes(protected)
		})
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignupLoginMeFlow(t *testing.T) {
	router := newAuthTestRouter()

	rec := postJSON(t, router, "/auth/signup", service.SignupRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correcthorse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body.String())
	}

	var signup service.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if signup.Token == "" {
		t.Fatal("signup returned no token")
	}

	rec = postJSON(t, router, "/auth/login", service.LoginRequest{
		Email:    "ana@example.com",
		Password: "correcthorse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signup.Token)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, req)
	if meRec.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", meRec.Code, meRec.Body.String())
	}

	var me model.User
	if err := json.Unmarshal(meRec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "ana@example.com" {
		t.Errorf("me email = %q", me.Email)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := newAuthTestRouter()

	rec := postJSON(t, router, "/auth/signup", service.SignupRequest{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "correcthorse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", rec.Code)
	}

	rec = postJSON(t, router, "/auth/login", service.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login status = %d, want 401", rec.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me status = %d, want 401", rec.Code)
	}
}
