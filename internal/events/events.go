// Package events carries change notifications between moneybox processes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DatabaseUpdated is sent after a change was committed. Consumers re-read
// what they need; the message only says when.
type DatabaseUpdated struct {
	ID uuid.UUID `json:"id"`
	At time.Time `json:"at"`
}

func NewDatabaseUpdated(at time.Time) *DatabaseUpdated {
	return &DatabaseUpdated{ID: uuid.New(), At: at.UTC()}
}

func (m *DatabaseUpdated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DatabaseUpdatedFromJSON(data []byte) (*DatabaseUpdated, error) {
	var msg DatabaseUpdated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decoding database updated message: %w", err)
	}

	if msg.ID == uuid.Nil || msg.At.IsZero() {
		return nil, fmt.Errorf("decoding database updated message: missing id or timestamp")
	}

	return &msg, nil
}

// Noop drops every message, for deployments without a broker.
type Noop struct{}

func (Noop) PublishDatabaseUpdated(context.Context, time.Time) error { return nil }
