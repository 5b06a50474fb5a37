package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func request(allowed []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(allowed))
	r.GET("/drafts", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/drafts", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/drafts", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAllowedOrigin(t *testing.T) {
	rec := request([]string{"https://planner.example/"}, http.MethodGet, "https://planner.example")
	assert.Equal(t, "https://planner.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, exposeHeaders, rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestRejectedOrigin(t *testing.T) {
	rec := request([]string{"https://planner.example"}, http.MethodGet, "https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPreflightShortCircuits(t *testing.T) {
	rec := request(nil, http.MethodOptions, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
