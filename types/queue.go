package types

import "time"

// QueueItem is one pending document request.
type QueueItem struct {
	QueueID    int       `json:"queue_id" db:"queue_id"`
	ResidentID int       `json:"resident_id" db:"resident_id"`
	Document   string    `json:"document" db:"document"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// QueueEntry is a queue item joined with resident data for display.
type QueueEntry struct {
	ID         int    `json:"id"`
	ResidentID int    `json:"resident_id"`
	Document   string `json:"document"`
	Name       string `json:"name"`
	Label      string `json:"label"`
	Date       string `json:"date"`
}

// DocumentRequestEvent is the payload published when a request is enqueued.
type DocumentRequestEvent struct {
	QueueID     int       `json:"queue_id"`
	ResidentID  int       `json:"resident_id"`
	Document    string    `json:"document"`
	RequestedAt time.Time `json:"requested_at"`
}
