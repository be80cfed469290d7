package service

import (
	"testing"

	"github.com/quantummesh/impactview/internal/entity"
)

func earnedSet(t *testing.T, profile *entity.Profile, total, verified, given int64) map[string]bool {
	t.Helper()
	earned := make(map[string]bool)
	for _, badge := range ComputeBadges(profile, total, verified, given) {
		earned[badge.ID] = badge.Earned
	}
	return earned
}

func TestComputeBadgesNewMember(t *testing.T) {
	profile := &entity.Profile{TrustScore: 50}
	earned := earnedSet(t, profile, 0, 0, 0)

	for id, got := range earned {
		if got {
			t.Errorf("badge %q should not be earned by a new member", id)
		}
	}
	if len(earned) != 6 {
		t.Errorf("badge count = %d, want 6", len(earned))
	}
}

func TestComputeBadgesThresholds(t *testing.T) {
	profile := &entity.Profile{TrustScore: 70, ImpactTokens: 100}
	earned := earnedSet(t, profile, 10, 5, 10)

	for id, got := range earned {
		if !got {
			t.Errorf("badge %q should be earned at its exact threshold", id)
		}
	}
}

func TestComputeBadgesPartial(t *testing.T) {
	profile := &entity.Profile{TrustScore: 69, ImpactTokens: 99}
	earned := earnedSet(t, profile, 1, 4, 9)

	if !earned["first-action"] {
		t.Error("first-action should be earned after one submission")
	}
	for _, id := range []string{"10-actions", "verified-contributor", "100-tokens", "trusted-member", "community-validator"} {
		if earned[id] {
			t.Errorf("badge %q should not be earned just below its threshold", id)
		}
	}
}
