package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherFanOut(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var first, second, other int
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		first++
		return nil
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		second++
		return nil
	})
	d.Subscribe(EventTicketClosed, func(ctx context.Context, e Event) error {
		other++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Zero(t, other)
}

func TestDispatcherHandlerErrorsDoNotPropagate(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var called int
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		called++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated})
	assert.NoError(t, err)
	// A failing handler never blocks the remaining handlers.
	assert.Equal(t, 1, called)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketEscalated}))
}
