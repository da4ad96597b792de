package domain

import "time"

// AuditEntry is an audit record rendered for display.
type AuditEntry struct {
	EventID           string    `json:"event_id"`
	EventName         string    `json:"event_name"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Summary           string    `json:"summary"`
	URL               string    `json:"url"`
	UserID            int64     `json:"user_id"`
	ContextInstanceID int64     `json:"context_instance_id"`
	CRUD              string    `json:"crud"`
	EduLevel          int       `json:"edulevel"`
	TimeCreated       time.Time `json:"time_created"`
}
