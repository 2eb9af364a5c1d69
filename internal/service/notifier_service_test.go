package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/models"
)

type mockBridge struct {
	published  []interface{}
	publishErr error
	messages   chan *redis.Message
	closed     bool
}

func (m *mockBridge) Publish(ctx context.Context, channel string, payload interface{}) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, payload)
	return nil
}

func (m *mockBridge) Subscribe(ctx context.Context, channel string) (<-chan *redis.Message, func() error) {
	return m.messages, func() error {
		m.closed = true
		return nil
	}
}

func TestNotifierAttachDetach(t *testing.T) {
	svc := NewNotifierService(NotifierServiceParams{})

	id1, ch1 := svc.Attach()
	id2, _ := svc.Attach()
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, svc.ObserverCount())

	svc.Detach(id1)
	assert.Equal(t, 1, svc.ObserverCount())
	_, open := <-ch1
	assert.False(t, open)

	// detaching twice is a no-op
	svc.Detach(id1)
	assert.Equal(t, 1, svc.ObserverCount())
}

func TestNotifierPublishFansOutLocally(t *testing.T) {
	svc := NewNotifierService(NotifierServiceParams{})
	_, ch1 := svc.Attach()
	_, ch2 := svc.Attach()

	svc.Publish(context.Background(), models.DashboardCounts{Total: 3, PendingCount: 1})

	got1 := <-ch1
	got2 := <-ch2
	assert.Equal(t, int64(3), got1.Total)
	assert.Equal(t, int64(1), got2.PendingCount)
}

func TestNotifierDropsWhenObserverFull(t *testing.T) {
	svc := NewNotifierService(NotifierServiceParams{})
	_, ch := svc.Attach()

	for i := 0; i < 10; i++ {
		svc.Publish(context.Background(), models.DashboardCounts{Total: int64(i)})
	}

	// channel buffer holds the first deliveries, the rest were dropped
	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, cap(ch), received)
}

func TestNotifierPublishViaBridgeSkipsLocalDelivery(t *testing.T) {
	bridge := &mockBridge{}
	svc := NewNotifierService(NotifierServiceParams{Bridge: bridge})
	_, ch := svc.Attach()

	svc.Publish(context.Background(), models.DashboardCounts{Total: 9})

	require.Len(t, bridge.published, 1)
	select {
	case <-ch:
		t.Fatal("observer must only receive via the subscription loop")
	default:
	}
}

func TestNotifierBridgeFailureFallsBackLocally(t *testing.T) {
	bridge := &mockBridge{publishErr: errors.New("connection refused")}
	svc := NewNotifierService(NotifierServiceParams{Bridge: bridge})
	_, ch := svc.Attach()

	svc.Publish(context.Background(), models.DashboardCounts{Total: 9})

	got := <-ch
	assert.Equal(t, int64(9), got.Total)
}

func TestNotifierRunDeliversBridgeMessages(t *testing.T) {
	messages := make(chan *redis.Message, 1)
	bridge := &mockBridge{messages: messages}
	svc := NewNotifierService(NotifierServiceParams{Bridge: bridge})
	_, ch := svc.Attach()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	payload, err := json.Marshal(models.DashboardCounts{Total: 21, CurrentMonthCount: 2})
	require.NoError(t, err)
	messages <- &redis.Message{Payload: string(payload)}

	got := <-ch
	assert.Equal(t, int64(21), got.Total)
	assert.Equal(t, int64(2), got.CurrentMonthCount)

	cancel()
	<-done
	assert.True(t, bridge.closed)
}
