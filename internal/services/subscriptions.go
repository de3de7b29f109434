package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"r4academy-backend-go/internal/models"
)

// GetSubscription returns the user's subscription row, or nil when the
// user has never purchased one.
func GetSubscription(db *sqlx.DB, userID string) (*models.Subscription, error) {
	sub := models.Subscription{}
	err := db.Get(&sub, `
SELECT id, user_id, status, plan_type, expires_at, updated_at
FROM subscriptions
WHERE user_id = $1
`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(err, "load subscription")
	}
	return &sub, nil
}

// NextExpiry is the horizon a purchase buys: one calendar month from now.
func NextExpiry(now time.Time) time.Time {
	return now.AddDate(0, 1, 0)
}

// ActivateSubscription upserts the user's single subscription row to
// active/premium expiring one month out. Overlapping purchase events are
// last-writer-wins; webhook volume per user is low enough that no
// reconciliation is attempted.
func ActivateSubscription(db *sqlx.DB, userID string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`
INSERT INTO subscriptions (id, user_id, status, plan_type, expires_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE
SET status = EXCLUDED.status,
    plan_type = EXCLUDED.plan_type,
    expires_at = EXCLUDED.expires_at,
    updated_at = EXCLUDED.updated_at
`, uuid.NewString(), userID, models.SubscriptionActive, models.PlanPremium, NextExpiry(now), now)
	return WrapError(err, "activate subscription")
}

// ExpireIfPast flips an active subscription to inactive once its expiry
// has passed, and reports whether the subscription is usable now. This
// lazy check on read is the only expiry mechanism; there is no sweep.
func ExpireIfPast(db *sqlx.DB, sub *models.Subscription) (bool, error) {
	if sub == nil || sub.Status != models.SubscriptionActive {
		return false, nil
	}
	if sub.ExpiresAt.After(time.Now().UTC()) {
		return true, nil
	}
	_, err := db.Exec(`
UPDATE subscriptions SET status = $1, updated_at = $2 WHERE id = $3
`, models.SubscriptionInactive, time.Now().UTC(), sub.ID)
	if err != nil {
		return false, WrapError(err, "expire subscription")
	}
	sub.Status = models.SubscriptionInactive
	return false, nil
}
