package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arena-tracker/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterSeparatesUsers(t *testing.T) {
	rl := NewRateLimiter(1, 100)

	alice := rl.getLimiter("alice", types.TierFree)
	bob := rl.getLimiter("bob", types.TierFree)

	assert.NotSame(t, alice, bob)
	assert.Same(t, alice, rl.getLimiter("alice", types.TierFree))
}

func TestRateLimiterTierLimits(t *testing.T) {
	rl := NewRateLimiter(1, 100)

	free := rl.getLimiter("free-user", types.TierFree)
	paid := rl.getLimiter("paid-user", types.TierPaid)

	assert.Less(t, float64(free.Limit()), float64(paid.Limit()))
}

func TestRateLimitMiddlewareBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(1, 100)
	handler := RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	limited := false
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("GET", "/api/leaderboard", nil)
		req.Header.Set("X-User-ID", "burst-user")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		lastCode = w.Code
		if lastCode == http.StatusTooManyRequests {
			limited = true
		}
	}

	assert.True(t, limited, "expected the burst to exhaust the free tier limit")
}

func TestRateLimitMiddlewareDefaultsToFreeTier(t *testing.T) {
	rl := NewRateLimiter(5, 100)
	handler := RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/leaderboard", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	limiter := rl.getLimiter(req.RemoteAddr, types.TierFree)
	assert.Equal(t, float64(5), float64(limiter.Limit()))
}
