package quiz

import "strings"

// TopicQueue is a FIFO of topic hints fed by topic extraction and consumed
// by collection cycles. It is not safe for concurrent use.
type TopicQueue struct {
	topics []string
}

// NewTopicQueue returns a queue holding the trimmed, non-empty topics.
func NewTopicQueue(topics ...string) *TopicQueue {
	q := &TopicQueue{}
	q.Push(topics...)
	return q
}

// Push appends topics, skipping blanks.
func (q *TopicQueue) Push(topics ...string) {
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			q.topics = append(q.topics, t)
		}
	}
}

// Dequeue removes and returns up to n topics from the front.
func (q *TopicQueue) Dequeue(n int) []string {
	if q == nil || n <= 0 || len(q.topics) == 0 {
		return nil
	}
	n = min(n, len(q.topics))
	out := append([]string(nil), q.topics[:n]...)
	q.topics = q.topics[n:]
	return out
}

// Requeue puts topics back at the front, ahead of the queued ones, in
// their original order.
func (q *TopicQueue) Requeue(topics ...string) {
	if q == nil || len(topics) == 0 {
		return
	}
	restored := NewTopicQueue(topics...).topics
	q.topics = append(restored, q.topics...)
}

// Len returns the number of queued topics.
func (q *TopicQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.topics)
}

// Peek returns a copy of the queued topics without consuming them.
func (q *TopicQueue) Peek() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.topics...)
}

// Clear drops every queued topic.
func (q *TopicQueue) Clear() {
	q.topics = nil
}
