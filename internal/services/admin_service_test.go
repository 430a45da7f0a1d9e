// internal/services/admin_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/models"
	"github.com/ynstek/yns-backend/internal/utils"
)

type AdminServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AdminService
	staff   *models.User
	alice   *models.User
	bob     *models.User
	sky     *models.Shuttle
	gf      *models.Shuttle
}

func defaultParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func (suite *AdminServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewAdminService(suite.db, NewAuthorizationService())

	suite.staff = createTestUser(suite.T(), suite.db, "admin@ynstek.com", models.UserRoleStaff)
	suite.alice = createTestUser(suite.T(), suite.db, "alice@chipdesign.io", models.UserRoleCustomer)
	suite.bob = createTestUser(suite.T(), suite.db, "bob@siliconworks.kr", models.UserRoleCustomer)

	suite.sky = createTestShuttle(suite.T(), suite.db, "SKY130A")
	suite.gf = createTestShuttle(suite.T(), suite.db, "GF180MCU")

	seed := []models.Application{
		{UserID: suite.alice.ID, ShuttleID: suite.sky.ID, Status: models.ApplicationStatusGDSUploaded},
		{UserID: suite.alice.ID, ShuttleID: suite.gf.ID, Status: models.ApplicationStatusXORPassed},
		{UserID: suite.bob.ID, ShuttleID: suite.sky.ID, Status: models.ApplicationStatusXORFailed},
	}
	for i := range seed {
		suite.Require().NoError(suite.db.Create(&seed[i]).Error)
	}

	suite.Require().NoError(suite.db.Create(&models.NDARequest{
		UserID: suite.bob.ID,
		Status: models.NDAStatusPending,
	}).Error)
}

func (suite *AdminServiceTestSuite) TestListApplicationsRequiresStaff() {
	_, _, err := suite.service.ListApplications(sessionFor(suite.alice), "", defaultParams())
	var forbiddenErr *ForbiddenError
	suite.Require().ErrorAs(err, &forbiddenErr)
}

func (suite *AdminServiceTestSuite) TestListApplicationsAll() {
	apps, total, err := suite.service.ListApplications(sessionFor(suite.staff), "", defaultParams())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), total)
	assert.Len(suite.T(), apps, 3)

	// Listings carry the applicant and shuttle for display
	assert.NotEmpty(suite.T(), apps[0].User.Email)
	assert.NotEmpty(suite.T(), apps[0].Shuttle.Process)
}

func (suite *AdminServiceTestSuite) TestListApplicationsStatusFilter() {
	apps, total, err := suite.service.ListApplications(sessionFor(suite.staff), "XOR_PASSED", defaultParams())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(apps, 1)
	assert.Equal(suite.T(), models.ApplicationStatusXORPassed, apps[0].Status)
}

func (suite *AdminServiceTestSuite) TestListApplicationsSearchByEmail() {
	params := defaultParams()
	params.Search = "SILICONWORKS"

	apps, total, err := suite.service.ListApplications(sessionFor(suite.staff), "", params)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(apps, 1)
	assert.Equal(suite.T(), suite.bob.ID, apps[0].UserID)
}

func (suite *AdminServiceTestSuite) TestListApplicationsSearchByProcess() {
	params := defaultParams()
	params.Search = "gf180"

	apps, total, err := suite.service.ListApplications(sessionFor(suite.staff), "", params)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(apps, 1)
	assert.Equal(suite.T(), suite.gf.ID, apps[0].ShuttleID)
}

func (suite *AdminServiceTestSuite) TestListNDARequests() {
	requests, total, err := suite.service.ListNDARequests(sessionFor(suite.staff), "", defaultParams())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(requests, 1)
	assert.Equal(suite.T(), suite.bob.ID, requests[0].UserID)
	assert.Equal(suite.T(), "bob@siliconworks.kr", requests[0].User.Email)
}

func (suite *AdminServiceTestSuite) TestListNDARequestsRequiresStaff() {
	_, _, err := suite.service.ListNDARequests(sessionFor(suite.bob), "", defaultParams())
	var forbiddenErr *ForbiddenError
	suite.Require().ErrorAs(err, &forbiddenErr)
}

func (suite *AdminServiceTestSuite) TestDashboardStats() {
	stats, err := suite.service.GetDashboardStats(sessionFor(suite.staff))
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(3), stats.TotalApplications)
	assert.Equal(suite.T(), int64(1), stats.ByStatus[string(models.ApplicationStatusGDSUploaded)])
	assert.Equal(suite.T(), int64(1), stats.ByStatus[string(models.ApplicationStatusXORPassed)])
	assert.Equal(suite.T(), int64(1), stats.ByStatus[string(models.ApplicationStatusXORFailed)])
	assert.Equal(suite.T(), int64(1), stats.PendingNDA)
	assert.Equal(suite.T(), int64(3), stats.TotalUsers)
}

func (suite *AdminServiceTestSuite) TestDashboardStatsRequiresStaff() {
	_, err := suite.service.GetDashboardStats(sessionFor(suite.alice))
	var forbiddenErr *ForbiddenError
	suite.Require().ErrorAs(err, &forbiddenErr)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
