package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

type staticAuth bool

func (a staticAuth) Authenticated(context.Context) bool { return bool(a) }

type observed struct {
	method, path string
	status       int
}

type recordingObserver struct {
	calls []observed
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.calls = append(r.calls, observed{method: method, path: path, status: status})
}

func TestRequireSessionBlocksSignedOut(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/records", RequireSession(staticAuth(false)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.LoginRedirect, body.Redirect)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestRequireSessionPassesSignedIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/records", RequireSession(staticAuth(true)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &recordingObserver{}
	router := gin.New()
	router.Use(Metrics(obs))
	router.GET("/permits/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/permits/abc", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	require.Len(t, obs.calls, 2)
	assert.Equal(t, observed{method: "GET", path: "/permits/:id", status: http.StatusOK}, obs.calls[0])
	assert.Equal(t, observed{method: "GET", path: "unmatched", status: http.StatusNotFound}, obs.calls[1])
}
