package events

// InboxChanged is pushed to a user's connected sessions whenever a page save
// or notification dismissal may have changed their inbox. Clients respond by
// re-fetching /notifications. Kept small and versionable; changes should be
// additive.
type InboxChanged struct {
	Type   string `json:"type"`
	PageID string `json:"pageId,omitempty"`
}

// NewInboxChanged builds the event for a given source page (empty for
// dismissals, which are not page scoped).
func NewInboxChanged(pageID string) InboxChanged {
	return InboxChanged{Type: "inbox_changed", PageID: pageID}
}
