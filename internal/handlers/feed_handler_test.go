package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbererp/backend/internal/feed"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
)

func TestToFeedEventInsertCarriesRow(t *testing.T) {
	row, err := json.Marshal(models.Appointment{ID: "ap-1", Status: "scheduled"})
	require.NoError(t, err)

	ev := toFeedEvent(realtime.Event{
		Table: "appointments",
		Kind:  realtime.KindInsert,
		New:   row,
	})

	assert.Equal(t, feed.EventInsert, ev.Kind)
	require.NotNil(t, ev.New)
	assert.Equal(t, "ap-1", ev.New.ID)
}

func TestToFeedEventDeleteCarriesOldID(t *testing.T) {
	old, err := json.Marshal(models.Appointment{ID: "ap-2"})
	require.NoError(t, err)

	ev := toFeedEvent(realtime.Event{
		Table: "appointments",
		Kind:  realtime.KindDelete,
		Old:   old,
	})

	assert.Equal(t, feed.EventDelete, ev.Kind)
	assert.Nil(t, ev.New)
	assert.Equal(t, "ap-2", ev.OldID)
}

func TestToFeedEventBadPayloadIsHarmless(t *testing.T) {
	ev := toFeedEvent(realtime.Event{
		Table: "appointments",
		Kind:  realtime.KindUpdate,
		New:   json.RawMessage(`{broken`),
	})

	assert.Equal(t, feed.EventUpdate, ev.Kind)
	assert.Nil(t, ev.New)
}
