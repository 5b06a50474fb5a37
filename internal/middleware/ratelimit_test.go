package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(limiter *rate.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/drafts/:id/rebalance", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	r := rateLimitedRouter(rate.NewLimiter(rate.Limit(0.001), 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/drafts/d1/rebalance", nil))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), `"RATE_LIMITED"`)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 10))
	r := rateLimitedRouter(NewLimiter(0, 10))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/drafts/d1/rebalance", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.NotNil(t, NewLimiter(2, 0))
	assert.Equal(t, 1, NewLimiter(2, 0).Burst())
}
