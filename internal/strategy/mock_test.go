package strategy

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/campus-ops/nudge-cli/pkg/anthropic"
)

// mockClient returns scripted responses in call order; once the script is
// exhausted it keeps returning the last entry.
type mockClient struct {
	mu        sync.Mutex
	responses []mockResponse
	calls     int
	requests  []anthropic.MessageRequest
}

type mockResponse struct {
	text string
	err  error
}

func textResponse(text string) mockResponse {
	return mockResponse{text: text}
}

func errResponse(msg string) mockResponse {
	return mockResponse{err: eris.New(msg)}
}

func (m *mockClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++

	r := m.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: r.text}},
	}, nil
}

// slowClient blocks until the context deadline expires.
type slowClient struct {
	delay time.Duration
}

func (c *slowClient) CreateMessage(ctx context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.delay):
		return &anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: "{}"}},
		}, nil
	}
}
