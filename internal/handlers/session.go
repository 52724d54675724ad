// internal/handlers/session.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

type SessionHandler struct {
	sessionService *services.SessionService
	ttl            time.Duration
}

func NewSessionHandler(sessionService *services.SessionService, ttl time.Duration) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		ttl:            ttl,
	}
}

// POST /sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	storefront := h.sessionService.Create()
	token, expiresAt, err := utils.GenerateSessionToken(storefront.ID, h.ttl)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to issue session token")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"session_id": storefront.ID,
		"token":      token,
		"expires_at": expiresAt,
		"message":    i18n.T(lang, i18n.KeySessionCreated),
	})
}
