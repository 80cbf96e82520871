package domain

// Ticket is the sole persisted entity. The JSON tags carry the wire
// field names used by the list endpoint; the owner never leaves the
// server.
type Ticket struct {
    ID          int64  `json:"ticket_id"`
    Title       string `json:"title"`
    Description string `json:"description"`
    Status      string `json:"status"`
    OwnerID     int64  `json:"-"`
}

const (
    StatusOpen       = "OPEN"
    StatusInProgress = "IN PROGRESS"
    StatusPending    = "PENDING"
    StatusClosed     = "CLOSED"
)

// Statuses returns the four lifecycle values in display order.
func Statuses() []string {
    return []string{StatusOpen, StatusInProgress, StatusPending, StatusClosed}
}

func ValidStatus(s string) bool {
    switch s {
    case StatusOpen, StatusInProgress, StatusPending, StatusClosed:
        return true
    }
    return false
}
