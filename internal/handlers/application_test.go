// internal/handlers/application_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/google/uuid"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/middleware"
	"github.com/ynstek/yns-backend/internal/models"
	"github.com/ynstek/yns-backend/internal/services"
	"github.com/ynstek/yns-backend/internal/utils"
)

// memoryStorage satisfies services.ObjectStorage for transport tests.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStorage) Upload(key string, body io.ReadSeeker, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) SignedDownloadURL(key string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}

func (m *memoryStorage) SignedUploadURL(key string, expiry time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

type HTTPTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	customer *models.User
	staff    *models.User
	shuttle  *models.Shuttle
}

func (suite *HTTPTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.User{}, &models.Shuttle{}, &models.Application{}, &models.NDARequest{},
	))
	suite.db = db

	suite.customer = &models.User{Email: "designer@example.com", Role: models.UserRoleCustomer}
	suite.Require().NoError(db.Create(suite.customer).Error)
	suite.staff = &models.User{Email: "admin@ynstek.com", Role: models.UserRoleStaff}
	suite.Require().NoError(db.Create(suite.staff).Error)

	suite.shuttle = &models.Shuttle{
		Process:           "SKY130A",
		TapeOutDate:       time.Now().AddDate(0, 2, 0),
		WaferDeliveryDate: time.Now().AddDate(0, 5, 0),
	}
	suite.Require().NoError(db.Create(suite.shuttle).Error)

	storage := &memoryStorage{objects: make(map[string][]byte)}
	uploadCfg := config.UploadConfig{
		MaxSizeBytes:      100 * 1024 * 1024,
		AllowedExtensions: []string{".gds", ".gds.gz", ".oas", ".tgz", ".tar", ".tar.gz", ".zip"},
	}

	authz := services.NewAuthorizationService()
	applicationService := services.NewApplicationService(db, storage, uploadCfg)
	ndaService := services.NewNDAService(db, storage, authz)
	adminService := services.NewAdminService(db, authz)

	applicationHandler := NewApplicationHandler(applicationService)
	ndaHandler := NewNDAHandler(ndaService)
	adminHandler := NewAdminHandler(adminService, ndaService)

	r := gin.New()
	v1 := r.Group("/v1")
	{
		shuttles := v1.Group("/shuttles", middleware.AuthRequired())
		shuttles.POST("/:id/upload", applicationHandler.UploadGDS)
		shuttles.POST("/:id/upload-url", applicationHandler.CreateUploadURL)

		v1.GET("/pdk/download", middleware.AuthRequired(), ndaHandler.DownloadPDK)

		admin := v1.Group("/admin", middleware.AuthRequired(), middleware.StaffRequired())
		admin.GET("/applications", adminHandler.GetApplications)
	}
	suite.router = r
}

func (suite *HTTPTestSuite) tokenFor(user *models.User) string {
	token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), 1)
	suite.Require().NoError(err)
	return token
}

func (suite *HTTPTestSuite) multipartUpload(fileName, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	suite.Require().NoError(err)
	_, err = part.Write([]byte(content))
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())
	return &buf, writer.FormDataContentType()
}

func (suite *HTTPTestSuite) TestUploadRequiresAuth() {
	body, contentType := suite.multipartUpload("design.gds", "GDSII")
	req, _ := http.NewRequest("POST", "/v1/shuttles/"+suite.shuttle.ID.String()+"/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HTTPTestSuite) TestUploadGDS() {
	body, contentType := suite.multipartUpload("design.gds", "GDSII stream")
	req, _ := http.NewRequest("POST", "/v1/shuttles/"+suite.shuttle.ID.String()+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(suite.customer))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response["success"].(bool))

	var app models.Application
	suite.Require().NoError(suite.db.First(&app, "user_id = ?", suite.customer.ID).Error)
	assert.Equal(suite.T(), models.ApplicationStatusGDSUploaded, app.Status)
}

func (suite *HTTPTestSuite) TestUploadRejectsBadExtension() {
	body, contentType := suite.multipartUpload("design.exe", "MZ")
	req, _ := http.NewRequest("POST", "/v1/shuttles/"+suite.shuttle.ID.String()+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(suite.customer))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Application{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *HTTPTestSuite) TestCreateUploadURL() {
	payload, _ := json.Marshal(map[string]interface{}{
		"file_name": "design.gds",
		"size":      1024,
	})
	req, _ := http.NewRequest("POST", "/v1/shuttles/"+suite.shuttle.ID.String()+"/upload-url", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(suite.customer))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Key string `json:"key"`
			URL string `json:"url"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response.Success)
	assert.NotEmpty(suite.T(), response.Data.Key)
	assert.Contains(suite.T(), response.Data.URL, response.Data.Key)
}

func (suite *HTTPTestSuite) TestPDKDownloadWithoutNDA() {
	req, _ := http.NewRequest("GET", "/v1/pdk/download", nil)
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(suite.customer))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *HTTPTestSuite) TestPDKDownloadRedirectsWhenApproved() {
	approvedAt := time.Now()
	suite.Require().NoError(suite.db.Create(&models.NDARequest{
		UserID:     suite.customer.ID,
		Status:     models.NDAStatusApproved,
		ApprovedBy: &suite.staff.ID,
		ApprovedAt: &approvedAt,
	}).Error)

	req, _ := http.NewRequest("GET", "/v1/pdk/download", nil)
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(suite.customer))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusSeeOther, w.Code)
	assert.Contains(suite.T(), w.Header().Get("Location"), "pdk_package.zip")
}

func (suite *HTTPTestSuite) TestAdminListForbiddenForCustomer() {
	req, _ := http.NewRequest("GET", "/v1/admin/applications", nil)
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(suite.customer))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *HTTPTestSuite) TestAdminListForStaff() {
	req, _ := http.NewRequest("GET", "/v1/admin/applications", nil)
	req.Header.Set("Authorization", "Bearer "+suite.tokenFor(suite.staff))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func TestHTTPSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}
