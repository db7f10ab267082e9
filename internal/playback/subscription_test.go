package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscription_NonBlockingSends(t *testing.T) {
	sub := newSubscription()

	// Fill the buffer past capacity; sends must drop instead of blocking.
	for i := 0; i < eventBufferSize+5; i++ {
		sub.sendState(StateChange{Previous: StateStopped, Current: StatePlaying})
	}

	assert.Len(t, sub.stateCh, eventBufferSize)

	// Buffered events are still delivered in order.
	e := <-sub.StateChanged
	assert.Equal(t, StateStopped, e.Previous)
	assert.Equal(t, StatePlaying, e.Current)
}

func TestSubscription_DropsPerChannel(t *testing.T) {
	sub := newSubscription()

	for i := 0; i < eventBufferSize; i++ {
		sub.sendQueue(QueueChange{Index: i})
	}
	// The queue channel is full; other channels stay usable.
	sub.sendMode(ModeChange{Shuffle: true})

	assert.Len(t, sub.queueCh, eventBufferSize)
	m := <-sub.ModeChanged
	assert.True(t, m.Shuffle)
}

func TestSubscription_Close(t *testing.T) {
	sub := newSubscription()

	sub.close()

	select {
	case _, open := <-sub.Done:
		assert.False(t, open)
	default:
		t.Fatal("Done not closed")
	}
}
