package store

import (
	"sync"

	glob "github.com/ryanuber/go-glob"
)

// Message is one PUBLISH delivery, handed to a Subscriber's Deliver
// channel. Pattern is empty for a plain channel-subscribe match.
type Message struct {
	Channel string
	Pattern string
	Payload string
}

// Subscriber is one connection's pub/sub identity: its own inbox plus the
// channels/patterns it is currently subscribed to. The connection loop
// owns the Deliver channel's consumer side; PubSub only ever sends to it.
type Subscriber struct {
	Deliver chan Message

	mu       sync.Mutex
	channels map[string]struct{}
	patterns map[string]struct{}
}

// NewSubscriber creates a subscriber with a buffered inbox (PUBLISH never
// blocks on a slow reader; a full inbox just drops, matching the
// best-effort, no-blocking-commands design of this store).
func NewSubscriber() *Subscriber {
	return &Subscriber{
		Deliver:  make(chan Message, 256),
		channels: make(map[string]struct{}),
		patterns: make(map[string]struct{}),
	}
}

// SubscriptionCount returns how many channels and patterns this
// subscriber is currently on, used to decide whether it is restricted to
// the subscribe-context command subset.
func (s *Subscriber) SubscriptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.channels) + len(s.patterns)
}

// PubSub tracks, for this server, which subscribers are listening on
// which exact channels and which glob patterns.
type PubSub struct {
	mu       sync.Mutex
	channels map[string]map[*Subscriber]struct{}
	patterns map[string]map[*Subscriber]struct{}
}

// NewPubSub creates an empty pub/sub registry.
func NewPubSub() *PubSub {
	return &PubSub{
		channels: make(map[string]map[*Subscriber]struct{}),
		patterns: make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe adds sub to channel, returning its new total subscription
// count (channels + patterns).
func (ps *PubSub) Subscribe(channel string, sub *Subscriber) int {
	ps.mu.Lock()
	if ps.channels[channel] == nil {
		ps.channels[channel] = make(map[*Subscriber]struct{})
	}
	ps.channels[channel][sub] = struct{}{}
	ps.mu.Unlock()

	sub.mu.Lock()
	sub.channels[channel] = struct{}{}
	count := len(sub.channels) + len(sub.patterns)
	sub.mu.Unlock()
	return count
}

// Unsubscribe removes sub from channel, returning its new total
// subscription count.
func (ps *PubSub) Unsubscribe(channel string, sub *Subscriber) int {
	ps.mu.Lock()
	if set, ok := ps.channels[channel]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(ps.channels, channel)
		}
	}
	ps.mu.Unlock()

	sub.mu.Lock()
	delete(sub.channels, channel)
	count := len(sub.channels) + len(sub.patterns)
	sub.mu.Unlock()
	return count
}

// PSubscribe adds sub to pattern.
func (ps *PubSub) PSubscribe(pattern string, sub *Subscriber) int {
	ps.mu.Lock()
	if ps.patterns[pattern] == nil {
		ps.patterns[pattern] = make(map[*Subscriber]struct{})
	}
	ps.patterns[pattern][sub] = struct{}{}
	ps.mu.Unlock()

	sub.mu.Lock()
	sub.patterns[pattern] = struct{}{}
	count := len(sub.channels) + len(sub.patterns)
	sub.mu.Unlock()
	return count
}

// PUnsubscribe removes sub from pattern.
func (ps *PubSub) PUnsubscribe(pattern string, sub *Subscriber) int {
	ps.mu.Lock()
	if set, ok := ps.patterns[pattern]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(ps.patterns, pattern)
		}
	}
	ps.mu.Unlock()

	sub.mu.Lock()
	delete(sub.patterns, pattern)
	count := len(sub.channels) + len(sub.patterns)
	sub.mu.Unlock()
	return count
}

// Channels returns sub's current exact-channel subscriptions.
func (s *Subscriber) Channels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.channels))
	for c := range s.channels {
		out = append(out, c)
	}
	return out
}

// Patterns returns sub's current pattern subscriptions.
func (s *Subscriber) Patterns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.patterns))
	for p := range s.patterns {
		out = append(out, p)
	}
	return out
}

// UnsubscribeAll removes sub from every channel and pattern, called when
// its connection closes.
func (ps *PubSub) UnsubscribeAll(sub *Subscriber) {
	for _, c := range sub.Channels() {
		ps.Unsubscribe(c, sub)
	}
	for _, p := range sub.Patterns() {
		ps.PUnsubscribe(p, sub)
	}
}

// Publish delivers payload to every subscriber of channel (exact match)
// and every subscriber whose pattern globs channel, returning the total
// number of deliveries (the PUBLISH reply value). A subscriber matching
// both an exact channel and a pattern receives two deliveries, matching
// Redis semantics.
func (ps *PubSub) Publish(channel, payload string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	count := 0
	if set, ok := ps.channels[channel]; ok {
		for sub := range set {
			select {
			case sub.Deliver <- Message{Channel: channel, Payload: payload}:
				count++
			default:
			}
		}
	}
	for pattern, set := range ps.patterns {
		if !glob.Glob(pattern, channel) {
			continue
		}
		for sub := range set {
			select {
			case sub.Deliver <- Message{Channel: channel, Pattern: pattern, Payload: payload}:
				count++
			default:
			}
		}
	}
	return count
}

// NumSub returns the number of subscribers on channel, for PUBSUB
// NUMSUB-style introspection.
func (ps *PubSub) NumSub(channel string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.channels[channel])
}

// ActiveChannels returns every channel with at least one subscriber.
func (ps *PubSub) ActiveChannels() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]string, 0, len(ps.channels))
	for c := range ps.channels {
		out = append(out, c)
	}
	return out
}
