package realtime

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Topic names take the form "job:<id>" or "user:<id>".
func JobTopic(jobID uint) string {
	return fmt.Sprintf("job:%d", jobID)
}

func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// ParseTopic validates a topic string and returns its kind and numeric ID.
func ParseTopic(topic string) (kind string, id uint, err error) {
	parts := strings.SplitN(topic, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed topic %q", topic)
	}
	if parts[0] != "job" && parts[0] != "user" {
		return "", 0, fmt.Errorf("unknown topic kind %q", parts[0])
	}
	raw, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || raw == 0 {
		return "", 0, fmt.Errorf("invalid topic id %q", parts[1])
	}
	return parts[0], uint(raw), nil
}

// Registry tracks which connections are subscribed to which topics. It is
// safe for concurrent use; list methods return snapshot copies.
type Registry struct {
	mu sync.RWMutex

	// topic -> set of connection IDs
	topics map[string]map[string]bool

	// connection ID -> set of topics
	conns map[string]map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[string]map[string]bool),
		conns:  make(map[string]map[string]bool),
	}
}

// Subscribe adds connID to the topic. Duplicate subscriptions are no-ops.
func (slf *Registry) Subscribe(connID, topic string) {
	slf.mu.Lock()
	defer slf.mu.Unlock()

	if _, ok := slf.topics[topic]; !ok {
		slf.topics[topic] = make(map[string]bool)
	}
	slf.topics[topic][connID] = true

	if _, ok := slf.conns[connID]; !ok {
		slf.conns[connID] = make(map[string]bool)
	}
	slf.conns[connID][topic] = true
}

// Unsubscribe removes connID from the topic. Unknown pairs are no-ops.
func (slf *Registry) Unsubscribe(connID, topic string) {
	slf.mu.Lock()
	defer slf.mu.Unlock()

	if subs, ok := slf.topics[topic]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(slf.topics, topic)
		}
	}
	if topics, ok := slf.conns[connID]; ok {
		delete(topics, topic)
		if len(topics) == 0 {
			delete(slf.conns, connID)
		}
	}
}

// UnsubscribeAll drops every subscription held by connID and returns the
// topics it was subscribed to.
func (slf *Registry) UnsubscribeAll(connID string) []string {
	slf.mu.Lock()
	defer slf.mu.Unlock()

	topics := slf.conns[connID]
	out := make([]string, 0, len(topics))
	for topic := range topics {
		out = append(out, topic)
		if subs, ok := slf.topics[topic]; ok {
			delete(subs, connID)
			if len(subs) == 0 {
				delete(slf.topics, topic)
			}
		}
	}
	delete(slf.conns, connID)
	return out
}

// TopicsFor returns the topics connID is subscribed to.
func (slf *Registry) TopicsFor(connID string) []string {
	slf.mu.RLock()
	defer slf.mu.RUnlock()

	out := make([]string, 0, len(slf.conns[connID]))
	for topic := range slf.conns[connID] {
		out = append(out, topic)
	}
	return out
}

// SubscribersOf returns the connection IDs subscribed to the topic.
func (slf *Registry) SubscribersOf(topic string) []string {
	slf.mu.RLock()
	defer slf.mu.RUnlock()

	out := make([]string, 0, len(slf.topics[topic]))
	for connID := range slf.topics[topic] {
		out = append(out, connID)
	}
	return out
}
