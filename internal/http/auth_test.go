package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"r4academy-backend-go/internal/services"
)

func testTokens() services.TokenService {
	return services.TokenService{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUserID(r) == "" {
			t.Errorf("expected claims in context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithAuthMissingToken(t *testing.T) {
	handler := WithAuth(testTokens())(protectedEcho(t))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestWithAuthMalformedHeader(t *testing.T) {
	handler := WithAuth(testTokens())(protectedEcho(t))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestWithAuthInvalidToken(t *testing.T) {
	other := services.TokenService{Secret: []byte("other-secret"), Issuer: "test", TTL: time.Hour}
	token, _, err := other.CreateToken("user-1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	handler := WithAuth(testTokens())(protectedEcho(t))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestWithAuthValidToken(t *testing.T) {
	tokens := testTokens()
	token, _, err := tokens.CreateToken("user-1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	handler := WithAuth(tokens)(protectedEcho(t))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRequireAdminRejectsUser(t *testing.T) {
	tokens := testTokens()
	token, _, err := tokens.CreateToken("user-1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	handler := WithAuth(tokens)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	req := httptest.NewRequest(http.MethodPost, "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	tokens := testTokens()
	token, _, err := tokens.CreateToken("admin-1", "admin@x.com", "admin")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	handler := WithAuth(tokens)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	req := httptest.NewRequest(http.MethodPost, "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
