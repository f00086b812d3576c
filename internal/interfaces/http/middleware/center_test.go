package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tutorhub/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockCenterValidator is a test implementation of CenterValidator
type mockCenterValidator struct {
	ValidCenters map[string]*CenterInfo
	ShouldFail   bool
	FailError    error
}

func (m *mockCenterValidator) ValidateCenter(centerID string) (*CenterInfo, error) {
	if m.ShouldFail {
		return nil, m.FailError
	}
	if info, exists := m.ValidCenters[centerID]; exists {
		return info, nil
	}
	return nil, errors.New("center not found")
}

func TestCenterMiddleware_HeaderExtraction(t *testing.T) {
	tests := []struct {
		name           string
		centerID       string
		expectedStatus int
		expectedID     string
	}{
		{
			name:           "valid center ID in header",
			centerID:       uuid.New().String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing center ID",
			centerID:       "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid center ID format",
			centerID:       "invalid-uuid",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CenterMiddleware())

			var capturedCenterID string
			router.GET("/test", func(c *gin.Context) {
				capturedCenterID = GetCenterID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.centerID != "" {
				req.Header.Set(CenterHeaderKey, tt.centerID)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.centerID, capturedCenterID)
			}
		})
	}
}

func TestCenterMiddleware_JWTExtraction(t *testing.T) {
	centerID := uuid.New().String()

	router := gin.New()

	// Simulate JWT middleware that sets center_id
	router.Use(func(c *gin.Context) {
		c.Set("jwt_center_id", centerID)
		c.Next()
	})
	router.Use(CenterMiddleware())

	var capturedCenterID string
	router.GET("/test", func(c *gin.Context) {
		capturedCenterID = GetCenterID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, centerID, capturedCenterID)
}

func TestCenterMiddleware_JWTOverridesHeader(t *testing.T) {
	jwtCenterID := uuid.New().String()
	headerCenterID := uuid.New().String()

	router := gin.New()

	// JWT sets one center ID
	router.Use(func(c *gin.Context) {
		c.Set("jwt_center_id", jwtCenterID)
		c.Next()
	})
	router.Use(CenterMiddleware())

	var capturedCenterID string
	router.GET("/test", func(c *gin.Context) {
		capturedCenterID = GetCenterID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	// Header sets a different center ID
	req.Header.Set(CenterHeaderKey, headerCenterID)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// JWT should take priority over header
	assert.Equal(t, jwtCenterID, capturedCenterID)
}

func TestCenterMiddleware_SkipPaths(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		skipPaths      []string
		centerID       string
		expectedStatus int
	}{
		{
			name:           "health endpoint skipped",
			path:           "/health",
			skipPaths:      []string{"/health"},
			centerID:       "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "api health endpoint skipped",
			path:           "/api/v1/health",
			skipPaths:      []string{"/api/v1/health"},
			centerID:       "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "metrics endpoint skipped",
			path:           "/metrics",
			skipPaths:      []string{"/metrics"},
			centerID:       "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "nested health path skipped",
			path:           "/health/ready",
			skipPaths:      []string{"/health"},
			centerID:       "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-skipped path requires center",
			path:           "/api/test",
			skipPaths:      []string{"/health"},
			centerID:       "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			cfg := DefaultCenterConfig()
			cfg.SkipPaths = tt.skipPaths
			router.Use(CenterMiddlewareWithConfig(cfg))

			router.GET(tt.path, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.centerID != "" {
				req.Header.Set(CenterHeaderKey, tt.centerID)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCenterMiddleware_OptionalCenter(t *testing.T) {
	router := gin.New()
	router.Use(OptionalCenterMiddleware())

	var capturedCenterID string
	router.GET("/test", func(c *gin.Context) {
		capturedCenterID = GetCenterID(c)
		c.Status(http.StatusOK)
	})

	// Request without center ID should succeed
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, capturedCenterID)
}

func TestCenterMiddleware_WithValidator(t *testing.T) {
	validCenterID := uuid.New().String()
	invalidCenterID := uuid.New().String()

	validator := &mockCenterValidator{
		ValidCenters: map[string]*CenterInfo{
			validCenterID: {
				ID:   uuid.MustParse(validCenterID),
				Code: "TH01",
			},
		},
	}

	tests := []struct {
		name           string
		centerID       string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid center passes validation",
			centerID:       validCenterID,
			expectedStatus: http.StatusOK,
			expectedCode:   "TH01",
		},
		{
			name:           "invalid center fails validation",
			centerID:       invalidCenterID,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			cfg := DefaultCenterConfig()
			cfg.Validator = validator
			router.Use(CenterMiddlewareWithConfig(cfg))

			var capturedCode string
			router.GET("/test", func(c *gin.Context) {
				capturedCode = GetCenterCode(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(CenterHeaderKey, tt.centerID)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedCode, capturedCode)
			}
		})
	}
}

func TestValidateCenterIDFormat(t *testing.T) {
	tests := []struct {
		name      string
		centerID  string
		wantError bool
	}{
		{
			name:      "valid UUID",
			centerID:  uuid.New().String(),
			wantError: false,
		},
		{
			name:      "invalid UUID - too short",
			centerID:  "invalid",
			wantError: true,
		},
		{
			name:      "invalid UUID - wrong format",
			centerID:  "not-a-valid-uuid-format",
			wantError: true,
		},
		{
			name:      "empty string",
			centerID:  "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCenterIDFormat(tt.centerID)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetCenterID(t *testing.T) {
	centerID := uuid.New().String()

	router := gin.New()
	router.Use(CenterMiddleware())

	router.GET("/test", func(c *gin.Context) {
		// Test GetCenterID
		gotID := GetCenterID(c)
		assert.Equal(t, centerID, gotID)

		// Test GetCenterUUID
		gotUUID, err := GetCenterUUID(c)
		require.NoError(t, err)
		assert.Equal(t, uuid.MustParse(centerID), gotUUID)

		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(CenterHeaderKey, centerID)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMustGetCenterID_Panics(t *testing.T) {
	router := gin.New()
	// No center middleware, so no center_id in context

	router.GET("/test", func(c *gin.Context) {
		assert.Panics(t, func() {
			MustGetCenterID(c)
		})
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMustGetCenterUUID_Panics(t *testing.T) {
	router := gin.New()

	router.GET("/test", func(c *gin.Context) {
		assert.Panics(t, func() {
			MustGetCenterUUID(c)
		})
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDefaultCenterConfig(t *testing.T) {
	cfg := DefaultCenterConfig()

	assert.True(t, cfg.HeaderEnabled)
	assert.True(t, cfg.JWTEnabled)
	assert.True(t, cfg.Required)
	assert.Nil(t, cfg.Validator)
	assert.Nil(t, cfg.Logger)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/metrics")
}

func TestCenterMiddleware_ContextPropagation(t *testing.T) {
	centerID := uuid.New().String()

	router := gin.New()
	router.Use(CenterMiddleware())

	router.GET("/test", func(c *gin.Context) {
		// Test that center ID is also available in the request context
		// via the logger package utility
		ctx := c.Request.Context()
		ctxCenterID := logger.GetCenterID(ctx)
		assert.Equal(t, centerID, ctxCenterID)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(CenterHeaderKey, centerID)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCenterMiddleware_DisabledMethods(t *testing.T) {
	centerID := uuid.New().String()

	t.Run("header disabled", func(t *testing.T) {
		router := gin.New()
		cfg := DefaultCenterConfig()
		cfg.HeaderEnabled = false
		cfg.Required = false
		router.Use(CenterMiddlewareWithConfig(cfg))

		var capturedCenterID string
		router.GET("/test", func(c *gin.Context) {
			capturedCenterID = GetCenterID(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CenterHeaderKey, centerID)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		// Header extraction disabled, so center ID should be empty
		assert.Empty(t, capturedCenterID)
	})

	t.Run("jwt disabled", func(t *testing.T) {
		router := gin.New()

		// Simulate JWT middleware
		router.Use(func(c *gin.Context) {
			c.Set("jwt_center_id", centerID)
			c.Next()
		})

		cfg := DefaultCenterConfig()
		cfg.JWTEnabled = false
		cfg.Required = false
		router.Use(CenterMiddlewareWithConfig(cfg))

		var capturedCenterID string
		router.GET("/test", func(c *gin.Context) {
			capturedCenterID = GetCenterID(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		// JWT extraction disabled, so center ID should be empty
		assert.Empty(t, capturedCenterID)
	})
}

func TestCenterMiddleware_ValidatorError(t *testing.T) {
	centerID := uuid.New().String()
	validatorError := errors.New("database connection failed")

	validator := &mockCenterValidator{
		ShouldFail: true,
		FailError:  validatorError,
	}

	router := gin.New()
	cfg := DefaultCenterConfig()
	cfg.Validator = validator
	router.Use(CenterMiddlewareWithConfig(cfg))

	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(CenterHeaderKey, centerID)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
