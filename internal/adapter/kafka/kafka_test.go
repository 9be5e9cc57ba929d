package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pachawayra-service/internal/config"
	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 7, 5, 17, 0, 0, 0, time.UTC)
	event := domain.ActivityEvent{
		ID:         "evt-1",
		Type:       domain.ActivityFavoriteAdded,
		SiteID:     "12",
		Region:     "Cusco",
		OccurredAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("evt-1"), msg.Key)
	assert.JSONEq(t, `{
		"id":"evt-1",
		"type":"favorite_added",
		"site_id":"12",
		"region":"Cusco",
		"occurred_at":"2026-07-05T17:00:00Z"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("favorite_added"), msg.Headers[0].Value)
	assert.Equal(t, "occurred_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_OmitsEmptySite(t *testing.T) {
	event := domain.NewActivityEvent(domain.ActivityFavoritesCleared, "", "", time.Now())

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.NotContains(t, string(msg.Value), "site_id")
	assert.Equal(t, []byte(event.ID), msg.Key)
}

func TestWriter_LoadBatch_Empty(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaActivityTopic: "activity"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	assert.NoError(t, w.LoadBatch(context.Background(), nil))
}
