package handlers

import (
	"net/http"
	"time"

	"focusly-api/inbox"
	"focusly-api/models"
	"focusly-api/pkg/events"
	"focusly-api/pkg/notify"
	"focusly-api/repository"
	"focusly-api/types"

	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct {
	pages    *repository.PagesRepository
	users    *repository.UsersRepository
	notifier notify.Notifier
}

func NewNotificationsHandler(pages *repository.PagesRepository, users *repository.UsersRepository) *NotificationsHandler {
	return &NotificationsHandler{pages: pages, users: users}
}

func (h *NotificationsHandler) WithNotifier(n notify.Notifier) *NotificationsHandler {
	h.notifier = n
	return h
}

// visibleInbox recomputes the caller's inbox from all pages minus the
// dismissed set.
func (h *NotificationsHandler) visibleInbox(userID int) ([]models.Notification, error) {
	pages, err := h.pages.GetPagesByUser(userID)
	if err != nil {
		return nil, err
	}
	dismissed, err := h.users.GetDismissedIDs(userID)
	if err != nil {
		return nil, err
	}
	return inbox.Generate(pages, dismissed, time.Now().UTC()), nil
}

func (h *NotificationsHandler) List(c *gin.Context) {
	userID := c.GetInt("userId")
	items, err := h.visibleInbox(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to load notifications"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(items))
}

// Dismiss permanently suppresses the given notification ids. The client's
// exit animation delay is purely visual; the ids are gone from the next
// regeneration immediately.
func (h *NotificationsHandler) Dismiss(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "ids required"))
		return
	}
	if err := h.users.DismissNotifications(userID, req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to dismiss notifications"))
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyUser(userID, events.NewInboxChanged(""))
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"dismissed": len(req.IDs)}))
}

// ClearAll dismisses every currently visible notification. Conditions that
// arise later still generate fresh entries.
func (h *NotificationsHandler) ClearAll(c *gin.Context) {
	userID := c.GetInt("userId")
	pages, err := h.pages.GetPagesByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to load notifications"))
		return
	}
	dismissed, err := h.users.GetDismissedIDs(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeFetchFailed, "Failed to load notifications"))
		return
	}
	visible := inbox.Generate(pages, dismissed, time.Now().UTC())
	ids := make([]string, 0, len(visible))
	for _, n := range visible {
		ids = append(ids, n.ID)
	}
	if err := h.users.DismissNotifications(userID, ids); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeSaveFailed, "Failed to clear notifications"))
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyUser(userID, events.NewInboxChanged(""))
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"cleared": len(ids)}))
}
