package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ironlog/fitness-tracker/internal/api"
	"ironlog/fitness-tracker/internal/metrics"
	"ironlog/fitness-tracker/internal/mocks"
	"ironlog/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "api-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	auth     *mocks.MockAuthService
	workouts *mocks.MockWorkoutService
	insights *mocks.MockInsightsService
	metrics  *metrics.Manager
}

func newTestServer(t *testing.T, limiter api.RequestRateLimiter) *testServer {
	ctrl := gomock.NewController(t)
	s := &testServer{
		router:   gin.New(),
		auth:     mocks.NewMockAuthService(ctrl),
		workouts: mocks.NewMockWorkoutService(ctrl),
		insights: mocks.NewMockInsightsService(ctrl),
		metrics:  metrics.NewTestManager(),
	}
	api.SetupRoutes(s.router, api.Dependencies{
		JWTSecret:       testSecret,
		AuthService:     s.auth,
		WorkoutService:  s.workouts,
		InsightsService: s.insights,
		Metrics:         s.metrics,
		RateLimiter:     limiter,
		InsightsPerMin:  2,
	})
	return s
}

func signToken(t *testing.T, userID string, expiresIn time.Duration) string {
	t.Helper()
	claims := &service.Claims{
		UserID: userID,
		Email:  userID + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID, time.Hour))
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v))
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rr, &body)
	return body["error"]
}

