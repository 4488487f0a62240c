package admin

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wardenproject/warden/internal/util"
)

// authorized validates the caller credential against the configured policy.
// With auth disabled every request passes. Otherwise the X-Admin-Key header
// is checked first (constant-time against AdminKey, or bcrypt against
// AdminKeyHash), then an optional bearer token.
func (h *Handler) authorized(c *gin.Context) bool {
	if !h.cfg.RequireAuth {
		return true
	}

	if key := c.GetHeader(AdminKeyHeader); key != "" {
		if h.cfg.AdminKeyHash != "" {
			return bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminKeyHash), []byte(key)) == nil
		}
		return h.cfg.AdminKey != "" && util.SecureCompare(key, h.cfg.AdminKey)
	}

	if h.cfg.AllowBearer {
		return h.validBearer(c.GetHeader("Authorization"))
	}

	return false
}

// validBearer checks a fleet-issued token: HS256, signed with the admin key,
// expiry required.
func (h *Handler) validBearer(header string) bool {
	const prefix = "Bearer "
	if h.cfg.AdminKey == "" || !strings.HasPrefix(header, prefix) {
		return false
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, prefix),
		func(*jwt.Token) (any, error) { return []byte(h.cfg.AdminKey), nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)

	return err == nil && token.Valid
}
