// Package session holds the state of one quiz-building session: the
// source text, the accepted questions, the per-kind seen-key registries
// and the topic queue. It runs collection cycles one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edugen/edugen/internal/quiz"
)

var (
	// ErrNoSource is returned when collecting before any source text is set.
	ErrNoSource = errors.New("no source text; set the study material first")

	// ErrIndex is returned for an out-of-range question index.
	ErrIndex = errors.New("question index out of range")
)

// RegistryFunc returns the seen-key registry for one kind of one session.
type RegistryFunc func(sessionID string, kind quiz.Kind) quiz.KeyRegistry

// MemoryRegistries keeps seen keys in process memory.
func MemoryRegistries(string, quiz.Kind) quiz.KeyRegistry {
	return quiz.NewKeySet()
}

// Session is one quiz being built from one source text. Methods are safe
// for concurrent use; collection cycles are serialised.
type Session struct {
	ID string

	mu        sync.Mutex
	collector *quiz.Collector
	source    string
	items     []quiz.Item
	seen      map[quiz.Kind]quiz.KeyRegistry
	topics    *quiz.TopicQueue
	createdAt time.Time
	updatedAt time.Time
}

// New creates an empty session. A nil registries func keeps seen keys in
// memory.
func New(id string, collector *quiz.Collector, registries RegistryFunc) *Session {
	if registries == nil {
		registries = MemoryRegistries
	}
	seen := make(map[quiz.Kind]quiz.KeyRegistry, len(quiz.Kinds))
	for _, k := range quiz.Kinds {
		seen[k] = registries(id, k)
	}
	now := time.Now()
	return &Session{
		ID:        id,
		collector: collector,
		seen:      seen,
		topics:    quiz.NewTopicQueue(),
		createdAt: now,
		updatedAt: now,
	}
}

// SetSource replaces the study material. The quiz, the topic queue and
// both seen-key registries are cleared.
func (s *Session) SetSource(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clearLocked(ctx); err != nil {
		return err
	}
	s.source = strings.TrimSpace(text)
	return nil
}

// Source returns the current study material.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// SetTopics replaces the pending topic hints.
func (s *Session) SetTopics(topics []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics.Clear()
	s.topics.Push(topics...)
	s.touch()
}

// Topics returns the pending topic hints.
func (s *Session) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topics.Peek()
}

// Collect runs one collection cycle for kind and appends the new questions
// to the quiz. On error the quiz is unchanged.
func (s *Session) Collect(ctx context.Context, kind quiz.Kind, quota int) ([]quiz.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return nil, ErrNoSource
	}
	added, err := s.collector.Collect(ctx, quiz.CollectRequest{
		Kind:     kind,
		Quota:    quota,
		Context:  s.source,
		Accepted: s.items,
		Seen:     s.seen[kind],
		Topics:   s.topics,
	})
	if err != nil {
		return nil, err
	}
	s.items = append(s.items, added...)
	s.touch()
	return added, nil
}

// Items returns a copy of the accepted questions in order.
func (s *Session) Items() []quiz.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]quiz.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Remove drops the question at index i. Its key stays registered, so the
// same question is not collected again.
func (s *Session) Remove(i int) (quiz.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.items) {
		return quiz.Item{}, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	removed := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.touch()
	return removed, nil
}

// Reset clears the quiz, the topic queue and the seen-key registries but
// keeps the source text.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

// Counts returns the number of accepted questions per kind.
func (s *Session) Counts() map[quiz.Kind]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[quiz.Kind]int, len(quiz.Kinds))
	for _, k := range quiz.Kinds {
		counts[k] = 0
	}
	for _, it := range s.items {
		counts[it.Kind]++
	}
	return counts
}

// UpdatedAt reports when the session last changed.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// CreatedAt reports when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) clearLocked(ctx context.Context) error {
	for kind, reg := range s.seen {
		if err := reg.Reset(ctx); err != nil {
			return fmt.Errorf("reset %s seen keys: %w", kind, err)
		}
	}
	s.items = nil
	s.topics.Clear()
	s.touch()
	return nil
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
