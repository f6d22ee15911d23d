package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(limiter *RateLimiter, rules map[string]RateLimitRule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:g1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		Limiter: limiter,
		Rules:   rules,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/documents/analyze" {
				return "ANALYZE"
			}
			return ""
		},
	}))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.POST("/api/v1/documents/analyze", ok)
	r.GET("/api/v1/analyses", ok)
	return r
}

func TestRateLimitAnalyzeBudgetIsSeparateFromReads(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	r := limitedRouter(limiter, map[string]RateLimitRule{
		"ANALYZE": {Rate: 0.2, Burst: 2},
		"DEFAULT": {Rate: 10, Burst: 5},
	})

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/documents/analyze", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("analyze %d: got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/documents/analyze", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("analyze over budget: got %d, want 429", resp.Code)
	}

	// Reads draw from a different bucket and still pass.
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("read after analyze exhaustion: got %d", resp.Code)
	}
}

func TestRateLimitResponseCarriesRetryAfter(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	r := limitedRouter(limiter, map[string]RateLimitRule{
		"DEFAULT": {Rate: 1, Burst: 1},
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("first request: got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "rate_limited" {
		t.Errorf("error = %v", payload["error"])
	}
	if _, ok := payload["retryAfterMs"]; !ok {
		t.Error("missing retryAfterMs")
	}
}

func TestRateLimitBucketRefills(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("g1|DEFAULT", rule); !ok {
		t.Fatal("first token should be available")
	}
	if ok, retry := limiter.Allow("g1|DEFAULT", rule); ok || retry <= 0 {
		t.Fatalf("empty bucket: ok=%v retry=%v", ok, retry)
	}

	now = now.Add(2 * time.Second)
	if ok, _ := limiter.Allow("g1|DEFAULT", rule); !ok {
		t.Fatal("bucket should refill after waiting")
	}
}
