package quiz

import (
	"context"

	"github.com/edugen/edugen/internal/textsim"
)

// KeySet is a set of exact-match question keys.
type KeySet struct {
	keys map[string]struct{}
}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...string) *KeySet {
	s := &KeySet{keys: make(map[string]struct{}, len(keys))}
	s.Add(keys...)
	return s
}

// Has reports whether key is in the set. A nil set is empty.
func (s *KeySet) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

// Add inserts keys.
func (s *KeySet) Add(keys ...string) {
	if s.keys == nil {
		s.keys = make(map[string]struct{}, len(keys))
	}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
}

// Len returns the number of keys.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in unspecified order.
func (s *KeySet) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

// Clone returns an independent copy.
func (s *KeySet) Clone() *KeySet {
	c := NewKeySet()
	if s != nil {
		for k := range s.keys {
			c.keys[k] = struct{}{}
		}
	}
	return c
}

// KeysOf returns the exact-match keys of items.
func KeysOf(items []Item) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = textsim.Key(it.Text)
	}
	return keys
}

// KeyRegistry stores the seen keys of one kind for one quiz-building
// session. The session owns its lifecycle; the collector only reads a
// snapshot at the start of a cycle and registers accepted keys at the end.
type KeyRegistry interface {
	Snapshot(ctx context.Context) (*KeySet, error)
	Register(ctx context.Context, keys ...string) error
	Reset(ctx context.Context) error
}

// KeySet is also the in-memory KeyRegistry.
var _ KeyRegistry = (*KeySet)(nil)

func (s *KeySet) Snapshot(context.Context) (*KeySet, error) {
	return s.Clone(), nil
}

func (s *KeySet) Register(_ context.Context, keys ...string) error {
	s.Add(keys...)
	return nil
}

func (s *KeySet) Reset(context.Context) error {
	s.keys = make(map[string]struct{})
	return nil
}
