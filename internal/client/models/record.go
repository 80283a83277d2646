// Package models defines the data shapes shared by the possync client:
// entity mirrors, sync queue items, and auth DTOs.
package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// EntityType names one of the mirrored backend entities.
type EntityType string

const (
	EntityBill     EntityType = "bill"
	EntityProduct  EntityType = "product"
	EntityCustomer EntityType = "customer"
)

// LocalIDPrefix marks identifiers assigned to records created while offline.
// A record keeps such an id until the queued create succeeds and the server
// issues the authoritative one.
const LocalIDPrefix = "local-"

// NewLocalID returns a fresh placeholder identifier.
func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id is a placeholder issued by NewLocalID.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// Record is a local mirror of one backend object. Payload holds the entity's
// domain fields and is opaque to the sync layer. Pending is set while a sync
// queue item referencing this record is still outstanding.
type Record struct {
	ID      string
	Payload json.RawMessage
	Pending bool
}

// ExtractID pulls the "id" field out of a JSON entity payload. The backend
// issues numeric ids; locally created records carry string placeholders, so
// both forms are normalized to a string.
func ExtractID(payload []byte) (string, bool) {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil || len(probe.ID) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(probe.ID, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(probe.ID, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// WithID returns a copy of the JSON payload with the "id" field set to id.
// Used to stamp placeholder identifiers onto offline-created entities.
func WithID(payload []byte, id string) ([]byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]json.RawMessage)
	}
	m["id"] = json.RawMessage(strconv.Quote(id))
	return json.Marshal(m)
}
