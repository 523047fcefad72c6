package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Hour})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over the limit was allowed")
	}
}

func TestAllowPerClient(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Hour})
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first client denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second client denied by first client's budget")
	}
	if l.ActiveClients() != 2 {
		t.Errorf("ActiveClients = %d, want 2", l.ActiveClients())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}
