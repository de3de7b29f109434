package services

import (
	"testing"
	"time"
)

func TestNextExpiryOneCalendarMonth(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	expiry := NextExpiry(now)
	if expiry != time.Date(2026, time.April, 15, 12, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected expiry: %s", expiry)
	}
}

func TestNextExpiryNormalizesShortMonths(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month into early March.
	now := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	expiry := NextExpiry(now)
	if expiry.Before(now.AddDate(0, 0, 28)) || expiry.After(now.AddDate(0, 0, 32)) {
		t.Fatalf("expiry outside the expected window: %s", expiry)
	}
}
