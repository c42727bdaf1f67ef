package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/api"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/middleware"
)

const (
	APIBaseURL            = "/api/v1"
	HealthCheckEndpoint   = APIBaseURL + "/health"
	UsersEndpoint         = APIBaseURL + "/users"
	SessionsEndpoint      = APIBaseURL + "/sessions"
	RefreshEndpoint       = APIBaseURL + "/sessions/refresh"
	FilesEndpoint         = APIBaseURL + "/files"
	MeetupsEndpoint       = APIBaseURL + "/meetups"
	OrganizingEndpoint    = APIBaseURL + "/organizing"
	SubscriptionsEndpoint = APIBaseURL + "/subscriptions"

	// TestToken is accepted by SetupRouterWithDefaultAuth as user TestUserID
	TestToken  = "test-token"
	TestUserID = uint(1)
)

// ServiceMocks bundles the service mocks behind the router
type ServiceMocks struct {
	Auth         *MockAuthService
	User         *MockUserService
	File         *MockFileService
	Meetup       *MockMeetupService
	Subscription *MockSubscriptionService
}

func NewServiceMocks() *ServiceMocks {
	return &ServiceMocks{
		Auth:         new(MockAuthService),
		User:         new(MockUserService),
		File:         new(MockFileService),
		Meetup:       new(MockMeetupService),
		Subscription: new(MockSubscriptionService),
	}
}

// AssertExpectations checks every mock in the bundle
func (m *ServiceMocks) AssertExpectations(t mock.TestingT) {
	m.Auth.AssertExpectations(t)
	m.User.AssertExpectations(t)
	m.File.AssertExpectations(t)
	m.Meetup.AssertExpectations(t)
	m.Subscription.AssertExpectations(t)
}

// SetupRouterWithMocks creates the API router over mock services for testing
func SetupRouterWithMocks(m *ServiceMocks) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := TestConfig()
	logger := TestLogger()

	return api.SetupRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(m.Auth, logger),
		User:         handler.NewUserHandler(m.User, logger),
		File:         handler.NewFileHandler(m.File, cfg.MaxFileSize, logger),
		Meetup:       handler.NewMeetupHandler(m.Meetup, logger),
		Subscription: handler.NewSubscriptionHandler(m.Subscription, logger),
	}, middleware.NewAuthMiddleware(m.Auth, logger), "")
}

// SetupRouterWithDefaultAuth is SetupRouterWithMocks with TestToken accepted
func SetupRouterWithDefaultAuth(m *ServiceMocks) *gin.Engine {
	m.Auth.On("ValidateAccessToken", TestToken).Return(TestUserID, nil).Maybe()
	return SetupRouterWithMocks(m)
}

// PerformRequest sends body as JSON (strings are sent verbatim) with an
// optional bearer token.
func PerformRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	switch v := body.(type) {
	case nil:
		buf = new(bytes.Buffer)
	case string:
		buf = bytes.NewBufferString(v)
	default:
		raw, _ := json.Marshal(v)
		buf = bytes.NewBuffer(raw)
	}

	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
