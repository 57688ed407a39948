package ws

import (
	"encoding/json"
	"time"
)

const EventInternshipsUpdated = "internships_updated"

type InternshipsUpdatedEvent struct {
	Type      string `json:"type"`
	Count     int    `json:"count"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// NotifyInternshipsUpdated tells connected clients the catalog changed so
// they can refetch.
func (h *Hub) NotifyInternshipsUpdated(count int, source string) {
	if h == nil {
		return
	}
	b, err := json.Marshal(InternshipsUpdatedEvent{
		Type:      EventInternshipsUpdated,
		Count:     count,
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	h.Broadcast(b)
}
