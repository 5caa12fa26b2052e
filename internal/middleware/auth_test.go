package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/liftlog/internal/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	testCases := []struct {
		name               string
		devMode            bool
		path               string
		method             string
		authHeader         string
		expectedStatusCode int
		checkToken         string
		mockIsLogged       bool
		mockIsLoggedErr    error
	}{
		{
			name:               "AuthServicePathWithoutToken",
			path:               "/auth/v1/token",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "HealthWithoutToken",
			path:               "/health",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ApiPathWithoutToken",
			path:               "/api/Exercise",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "NotBearerScheme",
			path:               "/api/Exercise",
			method:             "GET",
			authHeader:         "Basic abc",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "Preflight",
			path:               "/api/Exercise",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ValidToken",
			path:               "/api/Exercise",
			method:             "GET",
			authHeader:         "Bearer valid-token",
			checkToken:         "valid-token",
			mockIsLogged:       true,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "InvalidToken",
			path:               "/api/Exercise",
			method:             "GET",
			authHeader:         "Bearer invalid-token",
			checkToken:         "invalid-token",
			mockIsLogged:       false,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "CheckerError",
			path:               "/api/Workout",
			method:             "POST",
			authHeader:         "bearer some-token",
			checkToken:         "some-token",
			mockIsLoggedErr:    errors.New("boom"),
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "DevTokenInDevMode",
			devMode:            true,
			path:               "/api/Workout",
			method:             "GET",
			authHeader:         "Bearer dev-token",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "DevTokenOutsideDevMode",
			path:               "/api/Workout",
			method:             "GET",
			authHeader:         "Bearer dev-token",
			checkToken:         "dev-token",
			mockIsLogged:       false,
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockLoginChecker := NewMockloginChecker(ctrl)
			authMiddleware := middleware.NewAuthMiddlewareHandler(tc.devMode, mockLoginChecker)

			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.authHeader != "" {
				req.Header.Add("Authorization", tc.authHeader)
			}

			if tc.checkToken != "" {
				mockLoginChecker.EXPECT().
					IsLogged(gomock.Any(), tc.checkToken).
					Return(tc.mockIsLogged, tc.mockIsLoggedErr)
			}

			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}
