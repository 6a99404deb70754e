package engine

import "time"

// History actions
const (
	ActionRegister = "register"
	ActionUpdate   = "update"
	ActionIcon     = "icon"
	ActionDelete   = "delete"
)

// Event is one row of the management history.
type Event struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Entry     string    `json:"entry"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
