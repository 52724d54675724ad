// internal/middleware/session.go
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

const storefrontContextKey = "storefront"

// SessionRequired resolves the bearer token to a live storefront session.
func SessionRequired(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeySessionRequired))
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeySessionInvalid))
			c.Abort()
			return
		}

		sessionID, err := utils.ValidateSessionToken(parts[1])
		if err != nil {
			key := i18n.KeySessionInvalid
			var validationErr *jwt.ValidationError
			if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
				key = i18n.KeySessionExpired
			}
			utils.UnauthorizedResponse(c, i18n.T(lang, key))
			c.Abort()
			return
		}

		storefront, err := sessions.Get(sessionID)
		if err != nil {
			logrus.WithField("session_id", sessionID).Debug("Token refers to an unknown session")
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeySessionExpired))
			c.Abort()
			return
		}

		c.Set(storefrontContextKey, storefront)
		c.Set("session_id", sessionID.String())
		c.Next()
	}
}

// CurrentStorefront returns the storefront set by SessionRequired.
func CurrentStorefront(c *gin.Context) *services.Storefront {
	if v, exists := c.Get(storefrontContextKey); exists {
		if storefront, ok := v.(*services.Storefront); ok {
			return storefront
		}
	}
	return nil
}
