package models

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalID_HasPrefixAndIsUnique(t *testing.T) {
	a := NewLocalID()
	b := NewLocalID()

	assert.True(t, IsLocalID(a))
	assert.True(t, IsLocalID(b))
	assert.NotEqual(t, a, b)
	assert.False(t, IsLocalID("987"))
	assert.False(t, IsLocalID(""))
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		ok      bool
	}{
		{"numeric id", `{"id": 987, "total": 150}`, "987", true},
		{"string id", `{"id": "local-abc", "total": 150}`, "local-abc", true},
		{"missing id", `{"total": 150}`, "", false},
		{"empty string id", `{"id": ""}`, "", false},
		{"not json", `nope`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractID([]byte(tt.payload))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithID_StampsPlaceholder(t *testing.T) {
	out, err := WithID([]byte(`{"customerName":"Asha","total":150}`), "local-1")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "local-1", m["id"])
	assert.Equal(t, "Asha", m["customerName"])
	assert.EqualValues(t, 150, m["total"])
}

func TestQueueItem_IsCreate(t *testing.T) {
	localID := NewLocalID()

	create := QueueItem{Method: http.MethodPost, RecordID: localID}
	update := QueueItem{Method: http.MethodPut, RecordID: "42"}
	// an update against a record that is itself still pending carries a
	// local id but is not a create
	pendingUpdate := QueueItem{Method: http.MethodPut, RecordID: localID}

	assert.True(t, create.IsCreate())
	assert.False(t, update.IsCreate())
	assert.False(t, pendingUpdate.IsCreate())
}
