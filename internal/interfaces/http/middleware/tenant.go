package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tijara/backend/internal/infrastructure/logger"
	"github.com/tijara/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Keys used to store tenant information in gin.Context
const (
	TenantIDKey       = "tenant_id"
	UserNameKey       = "user_name"
	TenantHeaderKey   = "X-Tenant-ID"
	UserNameHeaderKey = "X-User-Name"
)

// DefaultUserName is recorded as the author of changes made without X-User-Name
const DefaultUserName = "Système"

const maxUserNameLength = 100

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// DefaultTenantID is used when the request has no X-Tenant-ID header
	DefaultTenantID uuid.UUID
	// SkipPaths are paths that don't require tenant context (e.g., health check)
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig(defaultTenant uuid.UUID) TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		DefaultTenantID: defaultTenant,
		SkipPaths:       []string{"/health", "/ping", "/api/v1/health", "/api/v1/ping"},
	}
}

// TenantMiddleware resolves the tenant and the acting user of each request.
// The tenant comes from X-Tenant-ID or the configured default; a malformed
// header is rejected with 400. The user name comes from X-User-Name, which
// may be form-encoded ("+" is a space, "%2B" a plus), and falls back to
// DefaultUserName.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		tenantID := cfg.DefaultTenantID
		if header := strings.TrimSpace(c.GetHeader(TenantHeaderKey)); header != "" {
			parsed, err := uuid.Parse(header)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Debug("Rejected tenant header", zap.String("value", header))
				}
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeInvalidTenant,
					"En-tête X-Tenant-ID invalide",
					c.GetString(logger.ContextKeyRequestID),
				))
				return
			}
			tenantID = parsed
		}
		if tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidTenant,
				"Locataire non identifié",
				c.GetString(logger.ContextKeyRequestID),
			))
			return
		}
		userName := parseUserName(c.GetHeader(UserNameHeaderKey))

		c.Set(TenantIDKey, tenantID.String())
		c.Set(UserNameKey, userName)

		ctx := logger.WithTenantID(c.Request.Context(), tenantID.String())
		ctx = logger.WithUserName(ctx, userName)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func parseUserName(header string) string {
	name := strings.TrimSpace(header)
	if strings.ContainsAny(name, "%+") {
		if decoded, err := url.QueryUnescape(name); err == nil {
			name = strings.TrimSpace(decoded)
		}
	}
	if name == "" || !utf8.ValidString(name) {
		return DefaultUserName
	}
	if utf8.RuneCountInString(name) > maxUserNameLength {
		name = string([]rune(name)[:maxUserNameLength])
	}
	return name
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(GetTenantID(c))
}

// GetUserName retrieves the acting user's name, DefaultUserName when unset
func GetUserName(c *gin.Context) string {
	if name := c.GetString(UserNameKey); name != "" {
		return name
	}
	return DefaultUserName
}
