package service

import (
	"testing"
	"time"
)

func TestMemoryRateLimiterAllowsUpToMax(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 3)
	for i := 0; i < 3; i++ {
		if !limiter.Allow("user-1:VERIFICATION") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("user-1:VERIFICATION") {
		t.Fatalf("request over the limit should be denied")
	}
}

func TestMemoryRateLimiterIsolatesKeys(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 1)
	if !limiter.Allow("user-1:VERIFICATION") {
		t.Fatalf("first key should be allowed")
	}
	if !limiter.Allow("user-2:VERIFICATION") {
		t.Fatalf("second key should be unaffected by the first")
	}
	if !limiter.Allow("user-1:PASSWORD_RESET") {
		t.Fatalf("same user with another purpose should be unaffected")
	}
}

func TestMemoryRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewMemoryRateLimiter(20*time.Millisecond, 1)
	if !limiter.Allow("user-1:VERIFICATION") {
		t.Fatalf("first request should be allowed")
	}
	if limiter.Allow("user-1:VERIFICATION") {
		t.Fatalf("second request inside the window should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("user-1:VERIFICATION") {
		t.Fatalf("request after the window should be allowed again")
	}
}
