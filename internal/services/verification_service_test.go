// internal/services/verification_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/models"
)

type VerificationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	storage *fakeStorage
	mailer  *fakeMailer
	server  *httptest.Server
	user    *models.User
	shuttle *models.Shuttle
}

func (suite *VerificationServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.storage = newFakeStorage()
	suite.mailer = &fakeMailer{}

	// Serves the fake storage over HTTP so signed download URLs resolve
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/")
		data, ok := suite.storage.get(key)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(data)
	}))
	suite.storage.urlBase = suite.server.URL

	suite.user = createTestUser(suite.T(), suite.db, "designer@example.com", models.UserRoleCustomer)
	suite.shuttle = createTestShuttle(suite.T(), suite.db, "SKY130A")
}

func (suite *VerificationServiceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *VerificationServiceTestSuite) newService(toolPath string) *VerificationService {
	return NewVerificationService(suite.db, suite.storage, suite.mailer, config.VerificationConfig{
		ToolPath:          toolPath,
		RunsetPath:        "xor_run.lyt",
		ReadURLTTLSeconds: 60,
	})
}

func (suite *VerificationServiceTestSuite) createUploadedApplication() *models.Application {
	key := GDSObjectKey(suite.user.ID, suite.shuttle.ID, suite.shuttle.CreatedAt)
	suite.Require().NoError(suite.storage.Upload(key, strings.NewReader("GDSII bytes"), "application/octet-stream"))

	app := &models.Application{
		UserID:    suite.user.ID,
		ShuttleID: suite.shuttle.ID,
		Status:    models.ApplicationStatusGDSUploaded,
		GDSPath:   &key,
	}
	suite.Require().NoError(suite.db.Create(app).Error)
	return app
}

func (suite *VerificationServiceTestSuite) TestRunPassVerdict() {
	app := suite.createUploadedApplication()
	service := suite.newService("/bin/true")

	summary, err := service.Run(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, summary.Scanned)
	assert.Equal(suite.T(), 1, summary.Passed)
	assert.Zero(suite.T(), summary.Failed)
	assert.Zero(suite.T(), summary.Errors)

	var fromDB models.Application
	suite.Require().NoError(suite.db.First(&fromDB, "id = ?", app.ID).Error)
	assert.Equal(suite.T(), models.ApplicationStatusXORPassed, fromDB.Status)
	suite.Require().NotNil(fromDB.XORReportPath)
	assert.Equal(suite.T(), XORReportKey(suite.user.ID, app.ID), *fromDB.XORReportPath)
	suite.Require().NotNil(fromDB.XORSummary)

	// Report landed in storage
	_, ok := suite.storage.get(*fromDB.XORReportPath)
	assert.True(suite.T(), ok)

	// Applicant was told
	sent := suite.mailer.sent()
	suite.Require().Len(sent, 1)
	assert.Equal(suite.T(), "designer@example.com", sent[0].To)
	assert.Equal(suite.T(), "MPW Application XOR_PASSED", sent[0].Subject)
	assert.Contains(suite.T(), sent[0].Body, "Your MPW application for SKY130A is now XOR_PASSED.")
	assert.Contains(suite.T(), sent[0].Body, "Summary:")
}

func (suite *VerificationServiceTestSuite) TestRunFailVerdict() {
	app := suite.createUploadedApplication()
	service := suite.newService("/bin/false")

	summary, err := service.Run(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, summary.Failed)
	assert.Zero(suite.T(), summary.Passed)
	assert.Zero(suite.T(), summary.Errors)

	var fromDB models.Application
	suite.Require().NoError(suite.db.First(&fromDB, "id = ?", app.ID).Error)
	assert.Equal(suite.T(), models.ApplicationStatusXORFailed, fromDB.Status)

	sent := suite.mailer.sent()
	suite.Require().Len(sent, 1)
	assert.Equal(suite.T(), "MPW Application XOR_FAILED", sent[0].Subject)
}

func (suite *VerificationServiceTestSuite) TestRerunIsNoOp() {
	suite.createUploadedApplication()
	service := suite.newService("/bin/true")

	_, err := service.Run(context.Background())
	suite.Require().NoError(err)

	// Second pass finds nothing: verdicts are terminal, no duplicate mail
	summary, err := service.Run(context.Background())
	suite.Require().NoError(err)
	assert.Zero(suite.T(), summary.Scanned)
	assert.Len(suite.T(), suite.mailer.sent(), 1)
}

func (suite *VerificationServiceTestSuite) TestMissingToolCountsAsError() {
	app := suite.createUploadedApplication()
	service := suite.newService("/nonexistent/geometry-tool")

	summary, err := service.Run(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, summary.Errors)
	assert.Zero(suite.T(), summary.Passed)
	assert.Zero(suite.T(), summary.Failed)

	// Item stays eligible for the next pass
	var fromDB models.Application
	suite.Require().NoError(suite.db.First(&fromDB, "id = ?", app.ID).Error)
	assert.Equal(suite.T(), models.ApplicationStatusGDSUploaded, fromDB.Status)
	assert.Empty(suite.T(), suite.mailer.sent())
}

func (suite *VerificationServiceTestSuite) TestMissingObjectCountsAsError() {
	key := "gds/missing.gds"
	app := &models.Application{
		UserID:    suite.user.ID,
		ShuttleID: suite.shuttle.ID,
		Status:    models.ApplicationStatusGDSUploaded,
		GDSPath:   &key,
	}
	suite.Require().NoError(suite.db.Create(app).Error)

	service := suite.newService("/bin/true")
	summary, err := service.Run(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, summary.Errors)

	var fromDB models.Application
	suite.Require().NoError(suite.db.First(&fromDB, "id = ?", app.ID).Error)
	assert.Equal(suite.T(), models.ApplicationStatusGDSUploaded, fromDB.Status)
}

func (suite *VerificationServiceTestSuite) TestOneBadItemDoesNotStopBatch() {
	missing := "gds/missing.gds"
	bad := &models.Application{
		UserID:    suite.user.ID,
		ShuttleID: suite.shuttle.ID,
		Status:    models.ApplicationStatusGDSUploaded,
		GDSPath:   &missing,
	}
	suite.Require().NoError(suite.db.Create(bad).Error)

	good := suite.createUploadedApplication()

	service := suite.newService("/bin/true")
	summary, err := service.Run(context.Background())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, summary.Scanned)
	assert.Equal(suite.T(), 1, summary.Passed)
	assert.Equal(suite.T(), 1, summary.Errors)

	var fromDB models.Application
	suite.Require().NoError(suite.db.First(&fromDB, "id = ?", good.ID).Error)
	assert.Equal(suite.T(), models.ApplicationStatusXORPassed, fromDB.Status)
}

func TestVerificationServiceSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceTestSuite))
}
