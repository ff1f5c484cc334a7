package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/models"
	"github.com/factrix/factrix-api/services"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RevokedToken{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{
		DatabaseURL: "sqlite::memory:",
		JWTSecret:   "test-secret",
		GoEnv:       "test",
	})
	return db
}

// protectedRouter mounts a probe handler behind the real middleware chain
func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{Authenticated()}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "emailId": user.EmailID})
	})
	router.GET("/protected", handlers...)
	return router
}

func requestWithToken(token string) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	}
	return req
}

func TestAuthenticated(t *testing.T) {
	db := setupAuthTestDB(t)

	user := models.User{
		FirstName:        "Mira",
		EmailID:          "mira@style.co",
		OrganisationName: "Style Co",
		Role:             models.RoleMerchant,
		PasswordHash:     "x",
		IsActive:         true,
	}
	db.Create(&user)

	deactivated := models.User{
		FirstName:        "Dora",
		EmailID:          "dora@mill.in",
		OrganisationName: "Dormant Mill",
		Role:             models.RoleFactory,
		PasswordHash:     "x",
		IsActive:         false,
	}
	db.Create(&deactivated)

	validToken, err := services.IssueToken(&user, services.LoginTokenTTL)
	assert.NoError(t, err)

	deactivatedToken, err := services.IssueToken(&deactivated, services.LoginTokenTTL)
	assert.NoError(t, err)

	// A different TTL keeps this token distinct from validToken even when
	// both are minted within the same second
	revokedToken, err := services.IssueToken(&user, services.RegisterTokenTTL)
	assert.NoError(t, err)
	assert.NoError(t, services.RevokeToken(db, revokedToken))

	orphanToken, err := services.IssueToken(&models.User{ID: 9999, EmailID: "gone@style.co"}, services.LoginTokenTTL)
	assert.NoError(t, err)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
		expectedError  string
	}{
		{"Valid session passes", validToken, http.StatusOK, ""},
		{"Missing cookie is rejected", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"Garbage token is rejected", "not-a-jwt", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"Revoked token is rejected", revokedToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"Deleted account is rejected", orphanToken, http.StatusNotFound, "USER_NOT_FOUND"},
		{"Deactivated account is rejected", deactivatedToken, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := protectedRouter()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, requestWithToken(tt.token))

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}
			assert.Equal(t, user.EmailID, response["emailId"])
		})
	}
}

func TestAuthenticated_WrongSecret(t *testing.T) {
	db := setupAuthTestDB(t)

	user := models.User{
		FirstName:        "Mira",
		EmailID:          "mira@style.co",
		OrganisationName: "Style Co",
		Role:             models.RoleMerchant,
		PasswordHash:     "x",
		IsActive:         true,
	}
	db.Create(&user)

	// Token minted under a different secret must not verify
	token, err := services.IssueToken(&user, services.LoginTokenTTL)
	assert.NoError(t, err)
	config.SetConfig(&config.Config{DatabaseURL: "sqlite::memory:", JWTSecret: "rotated-secret", GoEnv: "test"})

	router := protectedRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, requestWithToken(token))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMerchantOnly(t *testing.T) {
	db := setupAuthTestDB(t)

	merchant := models.User{
		FirstName:        "Mira",
		EmailID:          "mira@style.co",
		OrganisationName: "Style Co",
		Role:             models.RoleMerchant,
		PasswordHash:     "x",
		IsActive:         true,
	}
	db.Create(&merchant)

	factory := models.User{
		FirstName:        "Farid",
		EmailID:          "farid@stitchworks.in",
		OrganisationName: "Stitchworks",
		Role:             models.RoleFactory,
		PasswordHash:     "x",
		IsActive:         true,
	}
	db.Create(&factory)

	merchantToken, _ := services.IssueToken(&merchant, services.LoginTokenTTL)
	factoryToken, _ := services.IssueToken(&factory, services.LoginTokenTTL)

	router := protectedRouter(MerchantOnly())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, requestWithToken(merchantToken))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, requestWithToken(factoryToken))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "FORBIDDEN", errorData["code"])
}

func TestCurrentUser_MissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := CurrentUser(c)
	assert.Error(t, err)

	user := &models.User{ID: 7, EmailID: "mira@style.co"}
	SetCurrentUser(c, user)

	resolved, err := CurrentUser(c)
	assert.NoError(t, err)
	assert.Equal(t, user, resolved)
}
