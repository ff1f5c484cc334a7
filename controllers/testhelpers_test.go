package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/middleware"
	"github.com/factrix/factrix-api/models"
	"github.com/factrix/factrix-api/services"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupControllerTestDB builds an isolated in-memory database with the full
// schema and installs it plus a test configuration as the globals the
// handlers read
func setupControllerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.RevokedToken{},
		&models.Order{},
		&models.TNA{},
		&models.Fabric{},
		&models.TechpackIteration{},
		&models.Costing{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
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

// mockAuthMiddleware injects a resolved user the same way Authenticated does
func mockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func hashTestPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	return string(hash)
}

func createTestMerchant(t *testing.T, db *gorm.DB, email, org string) *models.User {
	user := models.User{
		FirstName:        "Mira",
		LastName:         "Shah",
		EmailID:          email,
		OrganisationName: org,
		Role:             models.RoleMerchant,
		PasswordHash:     hashTestPassword(t, "Sup3r$ecret"),
		IsActive:         true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test merchant: %v", err)
	}
	return &user
}

func createTestFactory(t *testing.T, db *gorm.DB, email, org string) *models.User {
	user := models.User{
		FirstName:        "Farid",
		LastName:         "Khan",
		EmailID:          email,
		OrganisationName: org,
		Role:             models.RoleFactory,
		PasswordHash:     hashTestPassword(t, "Sup3r$ecret"),
		IsActive:         true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test factory: %v", err)
	}
	return &user
}

// createTestOrder seeds a full aggregate: the order plus its four linked
// sub-documents
func createTestOrder(t *testing.T, db *gorm.DB, merchant, factory *models.User, styleNumber string) *models.Order {
	order := models.Order{
		StyleNumber:   styleNumber,
		BuyerName:     "Nordic Outfitters",
		OrderQuantity: 500,
		ShipmentDate:  time.Now().AddDate(0, 3, 0),
		Season:        "SS26",
		MerchantID:    merchant.ID,
		FactoryID:     factory.ID,
		Status:        models.StatusPending,
		IsActive:      true,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	tna := models.TNA{OrderID: order.ID}
	fabric := models.Fabric{OrderID: order.ID, ColorName: "TBD"}
	techpack := models.TechpackIteration{OrderID: order.ID}
	costing := models.Costing{OrderID: order.ID}
	for _, doc := range []interface{}{&tna, &fabric, &techpack, &costing} {
		if err := db.Create(doc).Error; err != nil {
			t.Fatalf("Failed to create test sub-document: %v", err)
		}
	}

	order.TNAID = tna.ID
	order.FabricID = fabric.ID
	order.TechpackID = techpack.ID
	order.CostingID = costing.ID
	if err := db.Save(&order).Error; err != nil {
		t.Fatalf("Failed to link test sub-documents: %v", err)
	}
	return &order
}

// testFile is an attachment for a multipart test request
type testFile struct {
	field    string
	filename string
	content  []byte
}

// newMultipartRequest builds a multipart/form-data request from plain fields
// and attachments
func newMultipartRequest(t *testing.T, method, url string, fields map[string]string, files []testFile) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write form field %s: %v", key, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			t.Fatalf("Failed to create form file %s: %v", file.field, err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("Failed to write form file %s: %v", file.field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// installMockServices swaps the S3 and mail singletons for in-memory mocks
func installMockServices() (*services.MockS3Service, *services.MockMailService) {
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	mockMail := services.NewMockMailService()
	mockMail.SetAsMockForTesting()
	return mockS3, mockMail
}
