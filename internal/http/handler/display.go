package handler

import (
	"encoding/json"
	"time"

	"backend-farmacia/internal/models"
)

// QueueMessage - payload yang dikirim ke display lewat websocket / Redis
type QueueMessage struct {
	Type       string   `json:"type"`
	Turns      []string `json:"turns"`
	Deliveries []string `json:"deliveries"`
	Waiting    int      `json:"waiting_count"`
	NextTurn   int      `json:"next_turn"`
	Timestamp  string   `json:"timestamp"`
}

func displayTurns(customers []models.Customer) []string {
	out := make([]string, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.String())
	}
	return out
}

func displayDeliveries(meds []models.Medication) []string {
	out := make([]string, 0, len(meds))
	for _, m := range meds {
		out = append(out, m.String())
	}
	return out
}

// BuildQueueMessage - snapshot antrian terbaru, dipakai sebagai realtime.BuildFunc
func (h *Handler) BuildQueueMessage() ([]byte, error) {
	snap := h.pharmacy.Snapshot()

	return json.Marshal(QueueMessage{
		Type:       "queue_update",
		Turns:      displayTurns(snap.Waiting),
		Deliveries: displayDeliveries(snap.Dispensed),
		Waiting:    len(snap.Waiting),
		NextTurn:   snap.NextTurn,
		Timestamp:  h.now().Format(time.RFC3339),
	})
}
