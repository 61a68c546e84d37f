package handlers

import (
	"safetrade/internal/middleware"
	"safetrade/internal/services/notification"
	"safetrade/internal/utils/pagination"
	"safetrade/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

var notificationPaging = pagination.Options{
	DefaultSort: "createdAt",
	Sortable:    map[string]string{"createdAt": "created_at"},
}

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns a page of the caller's notifications together with the unread count
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page, err := pagination.ParseFromRequest(c, notificationPaging)
	if err != nil {
		return err
	}
	unreadOnly, err := queryBool(c, "unreadOnly")
	if err != nil {
		return err
	}

	userID := middleware.ActorFrom(c).UserID
	items, total, err := h.notificationService.List(c.UserContext(), userID, unreadOnly != nil && *unreadOnly, page)
	if err != nil {
		return err
	}
	unread, err := h.notificationService.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return response.Paginated(c, fiber.Map{
		"notifications": items,
		"unreadCount":   unread,
	}, pagination.NewMeta(page, total))
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.notificationService.UnreadCount(c.UserContext(), middleware.ActorFrom(c).UserID)
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"unreadCount": n})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationService.MarkRead(c.UserContext(), middleware.ActorFrom(c).UserID, id); err != nil {
		return err
	}
	return response.Success(c, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.notificationService.MarkAllRead(c.UserContext(), middleware.ActorFrom(c).UserID)
	if err != nil {
		return err
	}
	return response.Success(c, "All notifications marked as read", fiber.Map{"updated": n})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationService.Delete(c.UserContext(), middleware.ActorFrom(c).UserID, id); err != nil {
		return err
	}
	return response.Success(c, "Notification deleted", nil)
}
