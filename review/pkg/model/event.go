package model

// ReviewEvent is published on every review write and consumed by the
// bulk-import ingestion path.
type ReviewEvent struct {
	Review
	EventType ReviewEventType `json:"eventType"`
}

type ReviewEventType string

const (
	ReviewEventTypeCreated = ReviewEventType("created")
	ReviewEventTypeUpdated = ReviewEventType("updated")
)
