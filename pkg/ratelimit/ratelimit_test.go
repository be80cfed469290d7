package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Without redis the limiter is a no-op: submits are allowed, there is
// no cooldown to report, and clearing succeeds.
func TestNilClientDisablesLimiting(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	allowed, err := CheckAndSet(ctx, nil, userID, "submit_action", time.Minute)
	if err != nil || !allowed {
		t.Errorf("CheckAndSet = (%v, %v), want (true, nil)", allowed, err)
	}

	remaining, err := TTL(ctx, nil, userID, "submit_action")
	if err != nil || remaining != 0 {
		t.Errorf("TTL = (%v, %v), want (0, nil)", remaining, err)
	}

	if err := Clear(ctx, nil, userID, "submit_action"); err != nil {
		t.Errorf("Clear = %v, want nil", err)
	}
}
