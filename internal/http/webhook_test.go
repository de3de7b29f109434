package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"r4academy-backend-go/internal/config"
)

// These cases never reach the store, so the server runs without a DB.
func webhookServer() *Server {
	return &Server{Config: config.Config{WebhookSecret: "hook-secret"}}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	s := webhookServer()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/cakto", strings.NewReader(`{"event":"purchase.approved"}`))
	resp := httptest.NewRecorder()
	s.CaktoWebhook(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestWebhookRejectsWrongSignature(t *testing.T) {
	s := webhookServer()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/cakto", strings.NewReader(`{"event":"purchase.approved"}`))
	req.Header.Set(signatureHeader, "wrong-secret")
	resp := httptest.NewRecorder()
	s.CaktoWebhook(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestWebhookMalformedPayload(t *testing.T) {
	s := webhookServer()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/cakto", strings.NewReader("{not json"))
	req.Header.Set(signatureHeader, "hook-secret")
	resp := httptest.NewRecorder()
	s.CaktoWebhook(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestWebhookIgnoresUnknownEvent(t *testing.T) {
	s := webhookServer()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/cakto", strings.NewReader(`{"event":"refund.issued","customer":{"email":"a@x.com"}}`))
	req.Header.Set(signatureHeader, "hook-secret")
	resp := httptest.NewRecorder()
	s.CaktoWebhook(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"received":true`) {
		t.Fatalf("expected acknowledgement, got %s", resp.Body.String())
	}
}

func TestWebhookApprovedWithoutEmail(t *testing.T) {
	s := webhookServer()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/cakto", strings.NewReader(`{"event":"purchase.approved","customer":{}}`))
	req.Header.Set(signatureHeader, "hook-secret")
	resp := httptest.NewRecorder()
	s.CaktoWebhook(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestIsPurchaseApproved(t *testing.T) {
	if !isPurchaseApproved("purchase.approved") || !isPurchaseApproved("compra aprovada") {
		t.Fatalf("expected both approval spellings to match")
	}
	if isPurchaseApproved("purchase.refunded") {
		t.Fatalf("expected other events to not match")
	}
}
