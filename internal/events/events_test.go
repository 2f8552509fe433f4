package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybox/internal/events"
)

func TestDatabaseUpdated_JSON(t *testing.T) {
	at := time.Date(2024, 5, 17, 8, 30, 0, 0, time.FixedZone("WEST", 3600))

	msg := events.NewDatabaseUpdated(at)
	assert.Equal(t, time.UTC, msg.At.Location())

	body, err := msg.ToJSON()
	require.NoError(t, err)

	got, err := events.DatabaseUpdatedFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
	assert.True(t, at.Equal(got.At))
}

func TestNoop(t *testing.T) {
	assert.NoError(t, events.Noop{}.PublishDatabaseUpdated(context.Background(), time.Now()))
}
