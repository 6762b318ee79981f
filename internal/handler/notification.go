package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/mounti/trip-booking/internal/repository"
    "github.com/mounti/trip-booking/internal/service"
)

// NotificationHandler serves a user's notification feed.
type NotificationHandler struct {
    Svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
    if svc == nil {
        panic("nil service passed to NewNotificationHandler")
    }
    return &NotificationHandler{Svc: svc}
}

// List handles GET /v1/notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Svc.List(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// MarkRead handles PATCH /v1/notifications/:id/read.  Re-reading an
// already read notification is a no-op, not an error.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Svc.MarkRead(c.Request().Context(), id, uid); err != nil {
        switch err {
        case repository.ErrNotificationNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not your notification"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// UnreadCount handles GET /v1/notifications/unread-count for badge
// rendering.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    n, err := h.Svc.UnreadCount(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"unread": n})
}
