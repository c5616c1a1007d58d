package service_test

import (
	"context"
	"sync"
	"testing"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/mocks"
	"registry-client/internal/models"
	"registry-client/internal/push"
	"registry-client/internal/service"
	"registry-client/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// OperationsServiceTestSuite defines the test suite for OperationsService
type OperationsServiceTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockOps    *mocks.MockOperationsInterface
	mu         sync.Mutex
	refreshes  int
	opsService *service.OperationsService
}

// SetupTest sets up the test suite
func (suite *OperationsServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockOps = mocks.NewMockOperationsInterface(suite.ctrl)
	suite.refreshes = 0

	hub := push.NewHub()
	hub.Subscribe(func(push.Event) {
		suite.mu.Lock()
		suite.refreshes++
		suite.mu.Unlock()
	}, models.CollectionOrganizations)

	suite.opsService = service.NewOperationsService(suite.mockOps, hub)
}

// TearDownTest cleans up after each test
func (suite *OperationsServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestMinimalCoordinates tests the minimal coordinates lookup
func (suite *OperationsServiceTestSuite) TestMinimalCoordinates() {
	org := testutils.NewOrganizationFactory().Create()
	suite.mockOps.EXPECT().MinimalCoordinates(gomock.Any()).Return(org, nil).Times(1)

	result, err := suite.opsService.MinimalCoordinates(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), org, result)
}

// TestGroupByRating tests the rating group count
func (suite *OperationsServiceTestSuite) TestGroupByRating() {
	groups := []models.RatingGroup{{Rating: 1, Count: 2}, {Rating: 4.5, Count: 1}}
	suite.mockOps.EXPECT().GroupByRating(gomock.Any()).Return(groups, nil).Times(1)

	result, err := suite.opsService.GroupByRating(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), groups, result)
}

// TestCountByType tests counting organizations of a type
func (suite *OperationsServiceTestSuite) TestCountByType() {
	suite.mockOps.EXPECT().CountByType(gomock.Any(), models.OrganizationTypeTrust).Return(int64(3), nil).Times(1)

	result, err := suite.opsService.CountByType(context.Background(), models.OrganizationTypeTrust)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), &models.TypeCount{Type: models.OrganizationTypeTrust, Count: 3}, result)
}

// TestCountByUnknownType tests that an unknown type is rejected locally
func (suite *OperationsServiceTestSuite) TestCountByUnknownType() {
	suite.mockOps.EXPECT().CountByType(gomock.Any(), gomock.Any()).Times(0)

	_, err := suite.opsService.CountByType(context.Background(), "NONPROFIT")

	assert.True(suite.T(), apperrors.IsValidation(err))
}

// TestDismissEmployeesReportsEveryRecord tests per-record aggregation
func (suite *OperationsServiceTestSuite) TestDismissEmployeesReportsEveryRecord() {
	suite.mockOps.EXPECT().DismissEmployees(gomock.Any(), int64(1)).
		Return(&models.OperationMessage{Message: "dismissed 25 employees"}, nil).Times(1)
	suite.mockOps.EXPECT().DismissEmployees(gomock.Any(), int64(2)).
		Return(nil, apperrors.ErrOrganizationNotFound).Times(1)
	suite.mockOps.EXPECT().DismissEmployees(gomock.Any(), int64(3)).
		Return(&models.OperationMessage{Message: "dismissed 0 employees"}, nil).Times(1)

	report := suite.opsService.DismissEmployees(context.Background(), 1, 2, 3)

	assert.False(suite.T(), report.OK())
	assert.Equal(suite.T(), []service.Outcome{
		{Target: "1", Message: "dismissed 25 employees"},
		{Target: "3", Message: "dismissed 0 employees"},
	}, report.Successes)
	if assert.Len(suite.T(), report.Failures, 1) {
		assert.Equal(suite.T(), "2", report.Failures[0].Target)
		assert.True(suite.T(), apperrors.IsNotFound(report.Failures[0].Err))
		assert.Equal(suite.T(), "organization not found", report.Failures[0].Error)
	}
	assert.Equal(suite.T(), 1, suite.refreshes)
}

// TestAbsorb tests absorbing organizations
func (suite *OperationsServiceTestSuite) TestAbsorb() {
	suite.mockOps.EXPECT().Absorb(gomock.Any(), int64(1), int64(2)).
		Return(&models.OperationMessage{Message: "organization 2 absorbed by 1"}, nil).Times(1)

	report := suite.opsService.Absorb(context.Background(),
		service.AbsorbPair{AbsorbingID: 1, AbsorbedID: 2},
		service.AbsorbPair{AbsorbingID: 5, AbsorbedID: 5},
	)

	assert.Len(suite.T(), report.Successes, 1)
	assert.Equal(suite.T(), "1<-2", report.Successes[0].Target)
	if assert.Len(suite.T(), report.Failures, 1) {
		assert.Equal(suite.T(), "5<-5", report.Failures[0].Target)
		assert.True(suite.T(), apperrors.IsValidation(report.Failures[0].Err))
	}
}

// TestAllFailuresDoNotRefresh tests that nothing is invalidated without a change
func (suite *OperationsServiceTestSuite) TestAllFailuresDoNotRefresh() {
	suite.mockOps.EXPECT().DismissEmployees(gomock.Any(), gomock.Any()).
		Return(nil, &apperrors.GatewayError{Op: "POST /api/operations/dismiss-employees", Status: 503}).Times(2)

	report := suite.opsService.DismissEmployees(context.Background(), 8, 9)

	assert.Empty(suite.T(), report.Successes)
	assert.Len(suite.T(), report.Failures, 2)
	assert.Equal(suite.T(), 0, suite.refreshes)
}

// TestOperationsServiceTestSuite runs the test suite
func TestOperationsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OperationsServiceTestSuite))
}

func TestOperationsAgainstFakeGateway(t *testing.T) {
	fake := testutils.NewFakeGateway()
	client := newClient(t, fake)

	coords := fake.AddCoordinates(1, 1)
	addr := fake.AddAddress(testutils.StringPtr("1234567"), 0)
	payload := models.OrganizationPayload{
		Type:                         models.OrganizationTypePublic,
		EmployeesCount:               10,
		CoordinatesID:                &coords.ID,
		PostalAddressID:              &addr.ID,
		ReusePostalAddressAsOfficial: true,
	}
	payload.Name = "Absorber"
	absorber, err := fake.AddOrganization(payload)
	assert.NoError(t, err)
	payload.Name = "Absorbed"
	absorbed, err := fake.AddOrganization(payload)
	assert.NoError(t, err)

	ops := service.NewOperationsService(client.Operations(), nil)

	count, err := ops.CountByType(context.Background(), models.OrganizationTypePublic)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)

	report := ops.Absorb(context.Background(), service.AbsorbPair{AbsorbingID: absorber.ID, AbsorbedID: absorbed.ID})
	assert.True(t, report.OK())

	_, exists := fake.Organization(absorbed.ID)
	assert.False(t, exists)
	remaining, _ := fake.Organization(absorber.ID)
	assert.Equal(t, int64(20), remaining.EmployeesCount)
}
