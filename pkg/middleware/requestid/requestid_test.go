package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/restaurants", func(c *gin.Context) {
		*captured = Value(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddlewareEchoesCallerID(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set(Header, "caller-supplied-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied-id", rec.Header().Get(Header))
	assert.Equal(t, "caller-supplied-id", seen)
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants", nil))

	id := rec.Header().Get(Header)
	require.NotEmpty(t, id)
	assert.Len(t, id, 32)
	assert.Equal(t, id, seen)
}

func TestValueWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Value(c))
}
