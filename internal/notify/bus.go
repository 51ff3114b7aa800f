// Package notify delivers "collection changed" signals to interested views,
// both inside the process and across independently running processes.
package notify

import "sync"

// Topic identifies the collection a change signal refers to.
type Topic string

const (
	TopicReports  Topic = "reports.changed"
	TopicRecords  Topic = "records.changed"
	TopicContacts Topic = "contacts.changed"
)

// Bus is an in-process publish/subscribe mechanism. Publish is
// fire-and-forget: each subscriber runs on its own goroutine, so a slow or
// panicking subscriber cannot delay or fail the mutation that triggered the
// publish. Delivery is at-least-once for subscribers registered at publish
// time; there is no replay for later subscribers.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]func(Topic)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[int]func(Topic))}
}

// Subscribe registers fn for a topic and returns its unsubscribe function.
// Unsubscribing is idempotent; a torn-down view must call it so it never
// receives stale callbacks.
func (b *Bus) Subscribe(topic Topic, fn func(Topic)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func(Topic))
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish signals every current subscriber of the topic. It returns as soon
// as the subscriber set has been snapshotted.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	snapshot := make([]func(Topic), 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		snapshot = append(snapshot, fn)
	}
	b.mu.Unlock()

	for _, fn := range snapshot {
		fn := fn
		go func() {
			defer func() { _ = recover() }()
			fn(topic)
		}()
	}
}
