package infra

import (
	"testing"
	"time"
)

func TestTokenBucketStore_GetSameKeyReturnsSameLimiter(t *testing.T) {
	s := NewTokenBucketStore(10, 1)

	l1 := s.GetLimiter("k")
	l2 := s.GetLimiter("k")
	if l1 != l2 {
		t.Fatalf("expected same limiter pointer for same key")
	}
}

func TestTokenBucketStore_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	s := NewTokenBucketStore(0.02, 1)

	lim := s.Get("k")
	if !lim.Allow() {
		t.Fatalf("expected first Allow to be true")
	}
	if lim.Allow() {
		t.Fatalf("expected second immediate Allow to be false (burst=1)")
	}
}

func TestTokenBucketStore_CleanupRemovesIdleEntries(t *testing.T) {
	s := NewTokenBucketStore(10, 1, WithIdleTTL(2*time.Millisecond), WithCleanupEvery(0))

	before := s.GetLimiter("k")
	time.Sleep(4 * time.Millisecond)

	s.Cleanup()

	after := s.GetLimiter("k")
	if before == after {
		t.Fatalf("expected limiter to be recreated after cleanup")
	}
}
