package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/factrix/factrix-api/config"
)

// TestHealthCheck is a unit test for the healthCheck handler function
func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	healthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Factrix API is running", response["message"])
}

// TestSetupRouter_RouteTable smoke-tests that the route table is mounted and
// protected routes reject anonymous requests
func TestSetupRouter_RouteTable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DatabaseURL: "sqlite::memory:",
		JWTSecret:   "test-secret",
		GoEnv:       "test",
		CORSOrigin:  "http://localhost:5173",
	}
	config.SetConfig(cfg)

	router := setupRouter(cfg)

	// Health is open
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Everything under /order and /notification requires a session cookie
	for _, path := range []string{"/order/all", "/order/search", "/notification"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "expected %s to be protected", path)
	}

	// Unknown paths fall through to gin's 404
	req, _ = http.NewRequest(http.MethodGet, "/order/nope", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
