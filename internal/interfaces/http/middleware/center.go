package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/infrastructure/logger"
)

// CenterContextKey is the key used to store center information in gin.Context
const (
	CenterIDKey     = "center_id"
	CenterCodeKey   = "center_code"
	CenterHeaderKey = "X-Center-ID"
)

// CenterInfo holds the extracted center information
type CenterInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// CenterValidator defines the interface for validating a center
type CenterValidator interface {
	ValidateCenter(centerID string) (*CenterInfo, error)
}

// CenterMiddlewareConfig holds configuration for center middleware
type CenterMiddlewareConfig struct {
	// HeaderEnabled enables X-Center-ID header extraction. Kiosk pads
	// authenticate with a device token instead of a user JWT and identify
	// their center with this header.
	HeaderEnabled bool
	// JWTEnabled enables JWT claim extraction (requires JWT middleware to run first)
	JWTEnabled bool
	// SkipPaths are paths that don't require center context (e.g., health check)
	SkipPaths []string
	// Required determines if center context is mandatory
	Required bool
	// Validator is an optional validator to check if center exists and is active
	Validator CenterValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultCenterConfig returns default center middleware configuration
func DefaultCenterConfig() CenterMiddlewareConfig {
	return CenterMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:      true,
		Validator:     nil,
		Logger:        nil,
	}
}

// CenterMiddleware extracts center information from the request
// Extraction order: JWT claims > X-Center-ID header
func CenterMiddleware() gin.HandlerFunc {
	return CenterMiddlewareWithConfig(DefaultCenterConfig())
}

// CenterMiddlewareWithConfig returns center middleware with custom configuration
func CenterMiddlewareWithConfig(cfg CenterMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var centerID string
		var extractionMethod string

		// Priority 1: JWT claims (if JWT middleware has already run)
		if cfg.JWTEnabled {
			if jwtCenterID, exists := c.Get(JWTCenterIDKey); exists {
				if cid, ok := jwtCenterID.(string); ok && cid != "" {
					centerID = cid
					extractionMethod = "jwt"
				}
			}
		}

		// Priority 2: X-Center-ID header
		if centerID == "" && cfg.HeaderEnabled {
			if headerCenterID := c.GetHeader(CenterHeaderKey); headerCenterID != "" {
				centerID = headerCenterID
				extractionMethod = "header"
			}
		}

		// Validate center ID format if present
		if centerID != "" {
			if err := validateCenterIDFormat(centerID); err != nil {
				respondUnauthorized(c, "Invalid center ID format")
				return
			}
		}

		// Check if center is required
		if centerID == "" && cfg.Required {
			respondUnauthorized(c, "Center identification required")
			return
		}

		// Optional: Validate center exists and is active
		var centerInfo *CenterInfo
		if centerID != "" && cfg.Validator != nil {
			var err error
			centerInfo, err = cfg.Validator.ValidateCenter(centerID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Center validation failed",
					zap.String("center_id", centerID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive center")
				return
			}
		}

		// Set center information in context
		if centerID != "" {
			// Set in gin context for easy access in handlers
			c.Set(CenterIDKey, centerID)
			if centerInfo != nil {
				c.Set(CenterCodeKey, centerInfo.Code)
			}

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithCenterID(ctx, log, centerID)
			c.Request = c.Request.WithContext(ctx)

			// Log extraction method for debugging
			if cfg.Logger != nil {
				cfg.Logger.Debug("Center identified",
					zap.String("center_id", centerID),
					zap.String("method", extractionMethod),
				)
			}
		}

		c.Next()
	}
}

// validateCenterIDFormat validates that the center ID is a valid UUID
func validateCenterIDFormat(centerID string) error {
	_, err := uuid.Parse(centerID)
	return err
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetCenterID retrieves the center ID from gin.Context
func GetCenterID(c *gin.Context) string {
	if centerID, exists := c.Get(CenterIDKey); exists {
		if cid, ok := centerID.(string); ok {
			return cid
		}
	}
	return ""
}

// GetCenterUUID retrieves the center ID as UUID from gin.Context
func GetCenterUUID(c *gin.Context) (uuid.UUID, error) {
	centerID := GetCenterID(c)
	if centerID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(centerID)
}

// GetCenterCode retrieves the center code from gin.Context
func GetCenterCode(c *gin.Context) string {
	if centerCode, exists := c.Get(CenterCodeKey); exists {
		if code, ok := centerCode.(string); ok {
			return code
		}
	}
	return ""
}

// MustGetCenterID retrieves the center ID from gin.Context or panics if not found
// Use this only in handlers where center is guaranteed to exist
func MustGetCenterID(c *gin.Context) string {
	centerID := GetCenterID(c)
	if centerID == "" {
		panic("center_id not found in context")
	}
	return centerID
}

// MustGetCenterUUID retrieves the center ID as UUID or panics if not found
func MustGetCenterUUID(c *gin.Context) uuid.UUID {
	centerUUID, err := GetCenterUUID(c)
	if err != nil || centerUUID == uuid.Nil {
		panic("valid center_id not found in context")
	}
	return centerUUID
}

// OptionalCenterMiddleware creates middleware that doesn't require center
func OptionalCenterMiddleware() gin.HandlerFunc {
	cfg := DefaultCenterConfig()
	cfg.Required = false
	return CenterMiddlewareWithConfig(cfg)
}
