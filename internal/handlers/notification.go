// internal/handlers/notification.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/middleware"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

type NotificationResponse struct {
	Key       string    `json:"key"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GET /notifications
// Returns and clears the pending notifications, translated for the caller.
func (h *NotificationHandler) DrainNotifications(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	storefront := middleware.CurrentStorefront(c)
	if storefront == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	pending := h.notificationService.Drain(storefront.ID)
	responses := make([]NotificationResponse, 0, len(pending))
	for _, n := range pending {
		responses = append(responses, NotificationResponse{
			Key:       n.Key,
			Message:   i18n.T(lang, n.Key, n.Args...),
			CreatedAt: n.CreatedAt,
		})
	}

	utils.SuccessResponse(c, responses)
}
