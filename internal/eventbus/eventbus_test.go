package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	b := New(nil)
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventQueryDispatched, func(e DomainEvent) { got <- e })

	b.Publish(QueryDispatchedEvent{Query: "brie"})

	select {
	case e := <-got:
		ev, ok := e.(QueryDispatchedEvent)
		require.True(t, ok)
		assert.Equal(t, "brie", ev.Query)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	b := New(nil)

	var first, second atomic.Int32
	unsubFirst := b.Subscribe(EventPipelineStarted, func(DomainEvent) { first.Add(1) })
	b.Subscribe(EventPipelineStarted, func(DomainEvent) { second.Add(1) })

	unsubFirst()
	unsubFirst()

	b.Publish(PipelineStartedEvent{})
	b.Close()

	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New(nil)

	var calls atomic.Int32
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventError, func(DomainEvent) { calls.Add(1) })

	b.Publish(ErrorEvent{Message: "x"})
	b.Publish(ErrorEvent{Message: "y"})
	b.Close()

	assert.Equal(t, int32(2), calls.Load())
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New(nil)
	var calls atomic.Int32
	b.Subscribe(EventPipelineStopped, func(DomainEvent) { calls.Add(1) })
	b.Close()
	b.Close()

	b.Publish(PipelineStoppedEvent{})
	assert.Equal(t, int32(0), calls.Load())
}
