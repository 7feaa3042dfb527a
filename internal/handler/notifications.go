package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/store"
)

type NotificationHandler struct {
	Store *store.Store
}

func NewNotificationHandler(s *store.Store) *NotificationHandler {
	return &NotificationHandler{Store: s}
}

// Create handles POST /v1/notifications. The data object is decoded
// according to type.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req model.NewNotification
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	switch req.Type {
	case model.NotifyBooking, model.NotifyPayment, model.NotifySystem, model.NotifyPromotion:
	default:
		return badRequest(c, "unknown notification type")
	}
	if req.UserID == "" || req.Title == "" {
		return badRequest(c, "user_id/title required")
	}
	return c.JSON(http.StatusCreated, h.Store.CreateNotification(req))
}

// ByUser handles GET /v1/users/:id/notifications, newest first.
func (h *NotificationHandler) ByUser(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.GetNotificationsByUser(c.Param("id")))
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"unread": h.Store.UnreadNotificationCount(c.Param("id"))})
}

// MarkRead handles POST /v1/notifications/:id/read. Marking an already
// read notification succeeds.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if !h.Store.MarkNotificationAsRead(c.Param("id")) {
		return notFound(c, "notification")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/users/:id/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"marked": h.Store.MarkAllNotificationsAsRead(c.Param("id"))})
}
