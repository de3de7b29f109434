package httpapi

import (
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"r4academy-backend-go/internal/models"
	"r4academy-backend-go/internal/services"
)

const signatureHeader = "X-Cakto-Signature"

type SubscriptionDTO struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	PlanType  string    `json:"planType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SubscriptionStatusResponse struct {
	HasSubscription bool             `json:"hasSubscription"`
	Subscription    *SubscriptionDTO `json:"subscription"`
}

// SubscriptionStatus reports the caller's subscription. The read goes
// through the same lazy expiry as the gate, so a past expires_at shows
// up as inactive here too.
func (s *Server) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	sub, err := services.GetSubscription(s.DB, CurrentUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	active := false
	if sub != nil {
		active, err = services.ExpireIfPast(s.DB, sub)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
	}
	response := SubscriptionStatusResponse{HasSubscription: active}
	if sub != nil {
		response.Subscription = &SubscriptionDTO{
			ID:        sub.ID,
			Status:    sub.Status,
			PlanType:  sub.PlanType,
			ExpiresAt: sub.ExpiresAt,
		}
	}
	WriteJSON(w, http.StatusOK, response)
}

// CreateCheckout builds the hosted checkout URL for the payment provider
// with the buyer's identity prefilled. Activation happens later through
// the webhook, never here.
func (s *Server) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	row := struct {
		Name  string `db:"name"`
		Email string `db:"email"`
	}{}
	if err := s.DB.Get(&row, `SELECT name, email FROM users WHERE id = $1`, CurrentUserID(r)); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to create checkout")
		return
	}
	params := url.Values{}
	params.Set("product_id", s.Config.CheckoutProductID)
	params.Set("customer_email", row.Email)
	params.Set("customer_name", row.Name)
	WriteJSON(w, http.StatusOK, map[string]string{
		"checkoutUrl": s.Config.CheckoutBaseURL + "?" + params.Encode(),
	})
}

type webhookPayload struct {
	Event    string `json:"event"`
	Customer struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer"`
}

// CaktoWebhook receives purchase events from the payment provider. The
// shared-secret header is compared in constant time. Once the payload
// parses the handler always answers 200: an unmatched customer email is
// not a condition the provider can fix by resending.
func (s *Server) CaktoWebhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(signatureHeader)
	if subtle.ConstantTimeCompare([]byte(signature), []byte(s.Config.WebhookSecret)) != 1 {
		log.Printf("webhook: invalid signature")
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Webhook processing failed")
		return
	}
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("webhook: malformed payload: %v", err)
		WriteError(w, http.StatusInternalServerError, "Webhook processing failed")
		return
	}
	if isPurchaseApproved(payload.Event) {
		email := strings.ToLower(strings.TrimSpace(payload.Customer.Email))
		if email != "" {
			user := models.User{}
			err := s.DB.Get(&user, `
SELECT id, name, email, password_hash, role, created_at
FROM users
WHERE lower(email) = $1
`, email)
			switch {
			case err == nil:
				if err := services.ActivateSubscription(s.DB, user.ID); err != nil {
					log.Printf("webhook: activate subscription for %s: %v", user.ID, err)
					WriteError(w, http.StatusInternalServerError, "Webhook processing failed")
					return
				}
				log.Printf("webhook: subscription activated for %s", user.Email)
			case errors.Is(err, sql.ErrNoRows):
				// Unknown customer: acknowledged and dropped, there is
				// no pending-activation queue.
				log.Printf("webhook: no user for purchase email")
			default:
				log.Printf("webhook: user lookup: %v", err)
				WriteError(w, http.StatusInternalServerError, "Webhook processing failed")
				return
			}
		}
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// The provider has emitted both spellings of the approval event.
func isPurchaseApproved(event string) bool {
	return event == "purchase.approved" || event == "compra aprovada"
}
