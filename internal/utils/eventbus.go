package utils

import (
	"sync"
)

type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// EventBus fans every published event out to all current subscribers.
// Slow subscribers lose events instead of blocking publishers.
type EventBus struct {
	subscribers map[uint64]chan Event
	nextID      uint64
	buffer      int
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[uint64]chan Event),
		buffer:      100,
	}
}

func (eb *EventBus) Publish(event string, data interface{}) {
	e := Event{Event: event, Data: data}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, ch := range eb.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// SubscribeCh returns a channel receiving every event and a cancel func
// that detaches and closes it.
func (eb *EventBus) SubscribeCh() (<-chan Event, func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := eb.nextID
	eb.nextID++
	ch := make(chan Event, eb.buffer)
	eb.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			eb.mu.Lock()
			delete(eb.subscribers, id)
			eb.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
