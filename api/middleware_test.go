package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/api"
	"github.com/golang-jwt/jwt/v5"
)

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSON(t, http.MethodGet, "/user/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_GarbageToken(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSON(t, http.MethodGet, "/user/me", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	env := newTestEnv(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": int64(1),
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec, _ := env.doJSON(t, http.MethodGet, "/user/me", s, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": int64(1),
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec, _ := env.doJSON(t, http.MethodGet, "/user/me", s, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := api.CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/user/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("CORS headers missing")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := api.RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}
