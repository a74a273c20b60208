// Package websocket pushes live updates to connected family devices:
// document change notices so every screen refetches, and sync status so
// the header can show the cloud save spinner.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message types pushed to clients.
const (
	TypeDocument     = "document_updated"
	TypeSyncStatus   = "sync_status"
	TypeBackupStatus = "backup_status"
)

// Message is one real-time notification.
type Message struct {
	Type        string `json:"type"`
	LastUpdated int64  `json:"last_updated,omitempty"`
	Status      string `json:"status,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// DocumentUpdated builds the notice that the trip document changed.
// Clients refetch the full document rather than patching in place.
func DocumentUpdated(lastUpdated int64) Message {
	return Message{Type: TypeDocument, LastUpdated: lastUpdated}
}

// SyncStatus builds a cloud sync state notice.
func SyncStatus(status, detail string) Message {
	return Message{Type: TypeSyncStatus, Status: status, Detail: detail}
}

// BackupStatus builds a backup progress notice.
func BackupStatus(state, detail string) Message {
	return Message{Type: TypeBackupStatus, Status: state, Detail: detail}
}

// Hub tracks the connected device sessions and broadcasts messages to
// them. It is also the HTTP handler that upgrades connections.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*session]struct{}
	logger   *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[*session]struct{}),
		logger:   logger.With("component", "websocket"),
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
}

// unregister removes a session and closes its send channel.
func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every connected session.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.sessions {
		select {
		case s.send <- data:
		default:
			// Session buffer full, drop the message rather than block.
		}
	}
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
