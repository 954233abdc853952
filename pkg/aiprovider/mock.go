package aiprovider

import (
	"context"
	"fmt"
)

// MockBackend returns deterministic responses for local runs and tests.
type MockBackend struct {
	BackendName     string
	Responses       map[string]string
	DefaultResponse string
	Fail            error
	Calls           int
}

// NewMockBackend creates a mock backend with a default response.
func NewMockBackend(name string) *MockBackend {
	return &MockBackend{
		BackendName:     name,
		Responses:       make(map[string]string),
		DefaultResponse: "mock response:",
	}
}

// Name returns the configured backend identifier.
func (b *MockBackend) Name() string {
	if b.BackendName == "" {
		return "mock"
	}
	return b.BackendName
}

// Query returns the canned response for the prompt, or the default
// response with the prompt echoed. Set Fail to simulate an outage.
func (b *MockBackend) Query(_ context.Context, prompt, _ string) (string, error) {
	b.Calls++
	if b.Fail != nil {
		return "", b.Fail
	}
	if resp, ok := b.Responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("%s\n%s", b.DefaultResponse, prompt), nil
}
