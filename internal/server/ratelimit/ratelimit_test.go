package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	// The full capacity is available as an initial burst.
	for i := 0; i < 10; i++ {
		if !bucket.allow() {
			t.Fatalf("request %d should pass within capacity", i+1)
		}
	}

	if bucket.allow() {
		t.Error("request past capacity should be denied")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 10; i++ {
		bucket.allow()
	}

	time.Sleep(1100 * time.Millisecond)

	if !bucket.allow() {
		t.Error("one token should have refilled after a second")
	}
	if bucket.allow() {
		t.Error("only one token should have refilled")
	}
}

func TestTokenBucket_GetStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.getStatus()
	if remaining != 5 {
		t.Errorf("remaining = %d, want 5", remaining)
	}
	if resetTime.Before(time.Now()) {
		t.Error("reset time should be in the future")
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/runs", http.MethodGet)
		if !allowed {
			t.Fatalf("request %d should pass within the limit", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Limit = %d, want 10", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Remaining = %d, want %d", info.Remaining, 9-i)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/runs", http.MethodGet)
	if allowed {
		t.Error("request past the limit should be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Error("RetryAfter should be positive when denied")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/runs", http.MethodGet)
		if !allowed {
			t.Fatalf("whitelisted request %d should pass", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("whitelisted Limit = %d, want 0", info.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("192.168.1.1", "/runs", http.MethodGet); allowed {
		t.Error("blacklisted client should be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/runs", http.MethodGet)
		if !allowed {
			t.Fatalf("request %d should pass with limiting disabled", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("disabled Limit = %d, want 0", info.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/plans", Method: http.MethodPost, Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	// Plan creation carries its own, tighter limit.
	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/plans", http.MethodPost)
		if !allowed {
			t.Fatalf("plan request %d should pass within its limit", i+1)
		}
		if info.Limit != 5 {
			t.Errorf("Limit = %d, want 5", info.Limit)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/plans", http.MethodPost)
	if allowed {
		t.Error("plan request past its limit should be denied")
	}
	if info.Limit != 5 {
		t.Errorf("Limit = %d, want 5", info.Limit)
	}

	// Other routes keep the default limit.
	allowed, info = limiter.Allow("127.0.0.1", "/runs", http.MethodGet)
	if !allowed {
		t.Error("other routes should stay on the default limit")
	}
	if info.Limit != 1000 {
		t.Errorf("Limit = %d, want 1000", info.Limit)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/runs", http.MethodGet); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("allowed %d concurrent requests, want exactly 100", allowedCount)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 100 * time.Millisecond,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/runs", http.MethodGet); !allowed {
			t.Fatalf("request from %s should pass", clientID)
		}
	}

	time.Sleep(150 * time.Millisecond)

	// Touch half the buckets so their last-access time moves forward.
	for i := 0; i < 5; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/runs", http.MethodGet); !allowed {
			t.Fatalf("request from %s should pass", clientID)
		}
	}

	time.Sleep(150 * time.Millisecond)

	// Recently used buckets survive a cleanup pass.
	for i := 0; i < 5; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/runs", http.MethodGet); !allowed {
			t.Errorf("request from %s should still pass after cleanup", clientID)
		}
	}
}

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/burst", http.MethodPost); !allowed {
			t.Fatalf("burst request %d should pass", i+1)
		}
	}

	if allowed, _ := limiter.Allow("127.0.0.1", "/burst", http.MethodPost); allowed {
		t.Error("request past the burst should be denied before any refill")
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/runs", http.MethodGet)
	if !allowed {
		t.Error("request should pass under the default config")
	}
	if info.Limit != 1000 {
		t.Errorf("default Limit = %d, want 1000", info.Limit)
	}
}
