package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "skillbridge:events"

// Event is the unit carried over the live transport. Kind tells subscribers
// how to decode Payload. Delivery is at-least-once; payloads carry record
// ids so consumers can drop duplicates.
type Event struct {
	Topic   string          `json:"topic"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

const (
	KindMessage      = "message"
	KindNotification = "notification"
)

func MatchTopic(matchID uuid.UUID) string {
	return "match:" + matchID.String()
}

func UserTopic(userID uuid.UUID) string {
	return "user:" + userID.String()
}

type Hub interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(topic string) (<-chan Event, func())
	Close()
}

// hub fans events out to in-process subscribers. When a redis client is
// available, publishes go through redis pub/sub so every instance forwards
// them to its own subscribers; without redis the hub degrades to
// single-instance local fan-out.
type hub struct {
	rdb *redis.Client

	mu     sync.RWMutex
	subs   map[string]map[chan Event]struct{}
	closed bool

	cancelForwarder context.CancelFunc
}

func NewHub(rdb *redis.Client) Hub {
	h := &hub{
		rdb:  rdb,
		subs: make(map[string]map[chan Event]struct{}),
	}

	if rdb != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelForwarder = cancel
		go h.forward(ctx)
	}

	return h
}

func (h *hub) Publish(ctx context.Context, event Event) error {
	if h.rdb == nil {
		h.deliver(event)
		return nil
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := h.rdb.Publish(ctx, redisChannel, raw).Err(); err != nil {
		// Keep local subscribers alive through a redis outage.
		h.deliver(event)
		return err
	}
	return nil
}

func (h *hub) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[chan Event]struct{})
	}
	h.subs[topic][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[topic]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, topic)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (h *hub) Close() {
	if h.cancelForwarder != nil {
		h.cancelForwarder()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for topic, set := range h.subs {
		for ch := range set {
			close(ch)
		}
		delete(h.subs, topic)
	}
}

// deliver pushes an event to every local subscriber of its topic. A slow
// subscriber is skipped rather than allowed to block the publisher.
func (h *hub) deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[event.Topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *hub) forward(ctx context.Context) {
	sub := h.rdb.Subscribe(ctx, redisChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		log.Printf("realtime: redis subscribe failed: %v", err)
		return
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok || m == nil {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
				log.Printf("realtime: dropping malformed event: %v", err)
				continue
			}
			h.deliver(event)
		}
	}
}
