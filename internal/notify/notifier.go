package notify

import "github.com/sirupsen/logrus"

// Notifier combines the two delivery channels: the in-process Bus and the
// durable cross-process Marker. Mutating callers publish through it; marker
// failures are logged and never propagated into the mutation result.
type Notifier struct {
	bus    *Bus
	marker *Marker
	log    *logrus.Logger
}

// NewNotifier creates a Notifier. The marker may be nil for in-process-only
// delivery (tests, the in-memory backend).
func NewNotifier(bus *Bus, marker *Marker, log *logrus.Logger) *Notifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{bus: bus, marker: marker, log: log}
}

// Publish signals in-process subscribers and touches the durable marker.
func (n *Notifier) Publish(topic Topic) {
	n.bus.Publish(topic)

	if n.marker == nil {
		return
	}
	if err := n.marker.Touch(); err != nil {
		n.log.WithError(err).Warn("update change marker")
	}
}

// Subscribe registers an in-process subscriber for a topic.
func (n *Notifier) Subscribe(topic Topic, fn func(Topic)) func() {
	return n.bus.Subscribe(topic, fn)
}
