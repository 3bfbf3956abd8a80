package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []*Event
}

func (c *captureSink) Dispatch(event *Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) list() []*Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Event{}, c.events...)
}

func TestAsyncSinkDelivers(t *testing.T) {
	capture := &captureSink{}
	sink := NewAsyncSink(capture, 16)

	sink.Publish("edge.upserted", map[string]any{"src": "alice", "dst": "bob"})
	sink.Publish("lens.created", map[string]any{"id": "main"})
	sink.Close()

	got := capture.list()
	require.Len(t, got, 2)
	require.Equal(t, "edge.upserted", got[0].Type)
	require.Equal(t, "lens.created", got[1].Type)
	require.False(t, got[0].Ts.IsZero())
}

func TestAsyncSinkPublishAfterClose(t *testing.T) {
	capture := &captureSink{}
	sink := NewAsyncSink(capture, 16)
	sink.Close()

	// Must neither panic nor deliver.
	sink.Publish("edge.upserted", nil)
	require.Empty(t, capture.list())
}

func TestAsyncSinkCloseIdempotent(t *testing.T) {
	sink := NewAsyncSink(&captureSink{}, 4)
	sink.Close()
	sink.Close()
}
