package models

import (
	"encoding/json"
	"net/http"
	"time"
)

// QueueItem captures one not-yet-confirmed mutation exactly as it must be
// re-issued against the backend.
//
// ID is an autoincrementing sequence assigned by the store; it defines FIFO
// replay order. Replay must preserve this order because later items may
// depend on earlier ones (a bill referencing a customer created in the same
// offline session).
type QueueItem struct {
	ID         int64
	Endpoint   string
	Method     string
	Headers    map[string]string
	Body       json.RawMessage
	EntityType EntityType
	// RecordID is the local mirror row this mutation concerns: the
	// placeholder id for creates, the server id for updates and deletes.
	RecordID  string
	CreatedAt time.Time
}

// IsCreate reports whether the item represents an entity creation, i.e.
// whether a successful replay must reconcile a placeholder record. An
// update captured against a still-pending placeholder carries a local
// RecordID too, so the method is part of the classification.
func (q *QueueItem) IsCreate() bool {
	return q.Method == http.MethodPost && IsLocalID(q.RecordID)
}
