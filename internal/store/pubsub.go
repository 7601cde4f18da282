package store

import (
	"context"
	"sync"
)

// MockMessage mirrors redis.Message for the in-memory pubsub.
type MockMessage struct {
	Channel string
	Payload string
}

// MockPubSub is an in-memory stand-in for redis.PubSub. Messages for
// channels it is not subscribed to are ignored; a full buffer drops the
// message rather than blocking the publisher.
type MockPubSub struct {
	channels map[string]bool
	msgChan  chan *MockMessage
	closeCh  chan struct{}
	closed   bool
	mu       sync.RWMutex
}

func NewMockPubSub(channels []string) *MockPubSub {
	channelMap := make(map[string]bool, len(channels))
	for _, ch := range channels {
		channelMap[ch] = true
	}

	return &MockPubSub{
		channels: channelMap,
		msgChan:  make(chan *MockMessage, 100),
		closeCh:  make(chan struct{}),
	}
}

// Channel returns the stream of received messages.
func (m *MockPubSub) Channel() <-chan *MockMessage {
	return m.msgChan
}

func (m *MockPubSub) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.closeCh)
		close(m.msgChan)
	}
	return nil
}

func (m *MockPubSub) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

func (m *MockPubSub) sendMessage(msg *MockMessage) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || !m.channels[msg.Channel] {
		return
	}

	select {
	case m.msgChan <- msg:
	default:
		// Buffer full; drop.
	}
}

// PubSubHub routes published messages to in-memory subscribers. It backs
// the cache layer when Redis is unavailable.
type PubSubHub struct {
	subscribers map[string][]*MockPubSub
	mu          sync.RWMutex
}

func NewPubSubHub() *PubSubHub {
	return &PubSubHub{
		subscribers: make(map[string][]*MockPubSub),
	}
}

// Subscribe registers a new subscriber for the given channels. The
// subscription is torn down when ctx is canceled or Close is called.
func (h *PubSubHub) Subscribe(ctx context.Context, channels ...string) *MockPubSub {
	pubsub := NewMockPubSub(channels)

	h.mu.Lock()
	for _, channel := range channels {
		h.subscribers[channel] = append(h.subscribers[channel], pubsub)
	}
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			pubsub.Close()
		case <-pubsub.closeCh:
		}

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, channel := range channels {
			subs := h.subscribers[channel]
			for i, sub := range subs {
				if sub == pubsub {
					h.subscribers[channel] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			if len(h.subscribers[channel]) == 0 {
				delete(h.subscribers, channel)
			}
		}
	}()

	return pubsub
}

// Publish delivers a payload to every subscriber of the channel.
func (h *PubSubHub) Publish(channel, payload string) {
	h.mu.RLock()
	subscribers := make([]*MockPubSub, len(h.subscribers[channel]))
	copy(subscribers, h.subscribers[channel])
	h.mu.RUnlock()

	if len(subscribers) == 0 {
		return
	}

	msg := &MockMessage{Channel: channel, Payload: payload}
	for _, sub := range subscribers {
		if !sub.isClosed() {
			sub.sendMessage(msg)
		}
	}
}
