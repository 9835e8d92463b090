package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisprep/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	finished := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	report := domain.RunReport{
		RunID: "run-1",
		Event: domain.Event{
			ID:        "usp000h7rf",
			Magnitude: 8.8,
		},
		KeptStations:  2,
		TargetSamples: 1500,
		ContainerPath: "data.h5",
		StartedAt:     finished.Add(-45 * time.Second),
		FinishedAt:    finished,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("run-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"container_path":"data.h5"`)
	assert.Contains(t, string(msg.Value), `"kept_stations":2`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "event_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("usp000h7rf"), msg.Headers[0].Value)
	assert.Equal(t, "stations_kept", msg.Headers[1].Key)
	assert.Equal(t, []byte("2"), msg.Headers[1].Value)
	assert.Equal(t, "finished_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2026-03-14T09:30:00Z"), msg.Headers[2].Value)
}
