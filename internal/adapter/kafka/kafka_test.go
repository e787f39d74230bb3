package kafka

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/config"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	event := domain.PredictionEvent{
		ID:          "evt-1",
		RequestID:   "req-1",
		Model:       "Random Forest",
		Code:        2,
		Alert:       "orange",
		Label:       domain.Decode(2).Label,
		Color:       "#FF6D00",
		Features:    domain.DefaultFeatureVector(),
		PredictedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("req-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"model":"Random Forest"`)
	assert.Contains(t, string(msg.Value), `"depth_km":20`)
	require.Len(t, msg.Headers, 5)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, map[string]string{
		"event_id":     "evt-1",
		"model":        "Random Forest",
		"alert":        "orange",
		"code":         "2",
		"predicted_at": now.Format(time.RFC3339),
	}, headers)
}

func TestWriter_LoadBatchEmpty(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "predictions"}, slog.Default())
	defer w.Close()

	require.NoError(t, w.LoadBatch(context.Background(), nil))
}
