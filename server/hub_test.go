package server

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealmvp/models"
)

func TestHubPublishesChart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(slog.New(&recordingHandler{}))
	go hub.Run(ctx)

	c := newWSClient("page-1", nil, hub, slog.New(&recordingHandler{}))
	hub.Register(c)

	chart, err := NewChartRenderer("season").Render(models.Transform(testRecords(t)))
	require.NoError(t, err)
	hub.PublishChart(chart)

	select {
	case msg := <-c.Send:
		assert.Equal(t, MessageTypeOption, msg.Type)
		assert.Equal(t, chart.Option, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open, "send channel closed on unregister")
}

func TestClientTrySendFull(t *testing.T) {
	c := newWSClient("slow", nil, nil, slog.Default())
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, c.TrySend(ServerMessage{Type: MessageTypeOption}))
	}
	assert.False(t, c.TrySend(ServerMessage{Type: MessageTypeOption}))
}

func TestHubStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := newWSClient("page-2", nil, hub, slog.Default())
	hub.Register(c)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	// unregistering after shutdown must not block
	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}
