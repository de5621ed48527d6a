package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned reply for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockJSON returns a canned reply whose content is v encoded as JSON.
// It panics if v cannot be encoded.
func MockJSON(v any) MockResponse {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return MockResponse{Content: b}
}

// MockProvider is a deterministic Provider for tests and offline runs.
// Replies queued with On answer only calls of that purpose; the rest come
// from the shared FIFO queue. With CheckSchema set, canned content goes
// through the same schema check as real replies.
type MockProvider struct {
	CheckSchema bool

	mu        sync.Mutex
	responses []MockResponse
	byPurpose map[string][]MockResponse
	Calls     []Request
	Purposes  []string
}

// NewMockProvider creates a MockProvider with the given canned replies.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses, byPurpose: make(map[string][]MockResponse)}
}

// Generate pops the next reply for the call's purpose, falling back to the
// shared queue. An empty queue reports ErrProviderUnavailable.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	purpose := PurposeFrom(ctx)
	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, purpose)

	var resp MockResponse
	switch {
	case len(m.byPurpose[purpose]) > 0:
		resp = m.byPurpose[purpose][0]
		m.byPurpose[purpose] = m.byPurpose[purpose][1:]
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	default:
		return nil, &ErrProviderUnavailable{}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	if m.CheckSchema && req.Schema != nil {
		if err := validateContent(req.Schema, resp.Content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned reply to the shared queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// On queues replies for calls made with the given purpose.
func (m *MockProvider) On(purpose string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byPurpose == nil {
		m.byPurpose = make(map[string][]MockResponse)
	}
	m.byPurpose[purpose] = append(m.byPurpose[purpose], responses...)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
