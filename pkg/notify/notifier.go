package notify

import (
	"encoding/json"
	"log/slog"

	"focusly-api/websocket"
)

// Notifier delivers real-time events to a user's connected sessions.
type Notifier interface {
	NotifyUser(userID int, event interface{})
}

// WSNotifier implements Notifier over the websocket Hub.
type WSNotifier struct {
	Hub *websocket.Hub
}

// NotifyUser serializes the event as JSON and sends it to every connected
// client of the user. A nil notifier or hub is a silent no-op so handlers can
// run without the push channel wired (e.g. in tests).
func (n *WSNotifier) NotifyUser(userID int, event interface{}) {
	if n == nil || n.Hub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal push event", "err", err)
		return
	}
	n.Hub.NotifyUser(userID, payload)
}
