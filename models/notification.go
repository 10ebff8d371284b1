package models

import (
	"fmt"
	"time"
)

// Notification categories. The category is part of the deterministic id, so
// the same underlying condition always regenerates the same id.
const (
	NotificationOverdue          = "overdue"
	NotificationPending          = "pending"
	NotificationTemplateTracker  = "tracker"
	NotificationTemplateBoard    = "dashboard"
	NotificationTemplateShopping = "shopping"
)

// Notification display types, matching the inbox item styling.
const (
	NotificationTypeDueDate = "due_date"
	NotificationTypePending = "pending_item"
)

// Notification is a derived, dismissible inbox entry. It is never persisted;
// only dismissal state is.
type Notification struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Meta    string    `json:"meta"`
	Type    string    `json:"type"`
	Icon    string    `json:"icon"`
	Date    time.Time `json:"date"`
}

// NotificationID builds the deterministic composite id for a condition on a
// given page item. Constructing ids through this one place keeps the format
// stable across recomputation and avoids ad hoc interpolation.
func NotificationID(category, pageID, itemID string) string {
	switch category {
	case NotificationOverdue:
		return fmt.Sprintf("native-overdue-%s-%s", pageID, itemID)
	case NotificationPending:
		return fmt.Sprintf("native-pending-%s-%s", pageID, itemID)
	default:
		return fmt.Sprintf("template-%s-%s-%s", category, pageID, itemID)
	}
}
