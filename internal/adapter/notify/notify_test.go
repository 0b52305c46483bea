package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/langcorrect-backend/internal/config"
	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

func sample() domain.Notification {
	return domain.Notification{
		Type:       domain.NotificationNewCorrection,
		SenderID:   uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Recipients: []uuid.UUID{uuid.MustParse("22222222-2222-2222-2222-222222222222")},
		EntryID:    uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEncode_WireShape(t *testing.T) {
	t.Parallel()

	data, err := Encode(sample())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "new_correction", m["type"])
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", m["sender"])
	assert.Equal(t, "33333333-3333-3333-3333-333333333333", m["entry_id"])
	assert.Equal(t, "2024-05-01T12:00:00Z", m["occurred_at"])
	assert.Len(t, m["recipients"], 1)
}

func TestEncode_NilRecipientsIsEmptyArray(t *testing.T) {
	t.Parallel()

	n := sample()
	n.Recipients = nil
	data, err := Encode(n)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recipients":[]`)
}

func TestLogPublisher_Notify(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p := NewLog(logger)
	require.NoError(t, p.Notify(context.Background(), sample()))
	require.NoError(t, p.Close())

	out := buf.String()
	assert.True(t, strings.Contains(out, "type=new_correction"), out)
	assert.True(t, strings.Contains(out, "component=notify"), out)
}

func TestNew_SelectsDriver(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	p, err := New(context.Background(), config.NotifyConfig{Driver: config.NotifyDriverLog}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)

	_, err = New(context.Background(), config.NotifyConfig{Driver: "kafka"}, logger)
	assert.Error(t, err)

	_, err = New(context.Background(), config.NotifyConfig{Driver: config.NotifyDriverRedis, RedisURL: "not a url"}, logger)
	assert.Error(t, err)
}

func TestRedisPublisher_PublishFailsWithoutServer(t *testing.T) {
	t.Parallel()

	// Nothing listens on port 1; the publish must surface the dial error.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	p := newRedisPublisher(rdb, "events", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	defer p.Close()

	err := p.Notify(context.Background(), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish new_correction")
	assert.Error(t, p.Ping(context.Background()))
}
