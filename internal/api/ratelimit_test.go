package api

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiterStore_BurstThenDeny(t *testing.T) {
	s := NewLimiterStore(rate.Limit(0), 3, time.Minute)

	for i := 0; i < 3; i++ {
		if !s.Allow("10.0.0.1") {
			t.Fatalf("request %d should pass within burst", i)
		}
	}
	if s.Allow("10.0.0.1") {
		t.Error("expected denial past the burst")
	}
}

func TestLimiterStore_PerIPIsolation(t *testing.T) {
	s := NewLimiterStore(rate.Limit(0), 1, time.Minute)

	if !s.Allow("10.0.0.1") {
		t.Fatal("first ip should pass")
	}
	if s.Allow("10.0.0.1") {
		t.Error("first ip should be exhausted")
	}
	if !s.Allow("10.0.0.2") {
		t.Error("second ip has its own bucket")
	}
}

func TestLimiterStore_EmptyIPFallsBackToShared(t *testing.T) {
	s := NewLimiterStore(rate.Limit(0), 1, time.Minute)

	if !s.Allow("") {
		t.Fatal("first unknown-client request should pass")
	}
	if s.Allow("  ") {
		t.Error("blank addresses share one bucket")
	}
}
