package aiprovider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderPrimaryQuery(t *testing.T) {
	primary := NewMockBackend("anthropic")
	primary.Responses["hello"] = "merhaba"

	p, err := NewProvider(ProviderPrimary, primary, nil)
	require.NoError(t, err)

	resp, err := p.Query(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "merhaba", resp)
	assert.Equal(t, 1, primary.Calls)
}

func TestProviderFallbackOnTransient(t *testing.T) {
	primary := NewMockBackend("anthropic")
	primary.Fail = &BackendError{Status: 503, Err: errors.New("overloaded")}
	secondary := NewMockBackend("openai")
	secondary.Responses["hello"] = "from secondary"

	p, err := NewProvider(ProviderPrimary, primary, secondary, WithFallback(true))
	require.NoError(t, err)

	resp, err := p.Query(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "from secondary", resp)
	assert.Equal(t, 1, primary.Calls)
	assert.Equal(t, 1, secondary.Calls)
}

func TestProviderNoFallbackOnSemanticError(t *testing.T) {
	primary := NewMockBackend("anthropic")
	primary.Fail = errors.New("invalid request")
	secondary := NewMockBackend("openai")

	p, err := NewProvider(ProviderPrimary, primary, secondary, WithFallback(true))
	require.NoError(t, err)

	_, err = p.Query(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Equal(t, 0, secondary.Calls)
}

func TestProviderFallbackDisabled(t *testing.T) {
	primary := NewMockBackend("anthropic")
	primary.Fail = &BackendError{Status: 429}
	secondary := NewMockBackend("openai")

	p, err := NewProvider(ProviderPrimary, primary, secondary, WithFallback(false))
	require.NoError(t, err)

	_, err = p.Query(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Equal(t, 0, secondary.Calls)
}

func TestProviderSecondaryMode(t *testing.T) {
	primary := NewMockBackend("anthropic")
	secondary := NewMockBackend("openai")
	secondary.Responses["soru"] = "yanit"

	p, err := NewProvider(ProviderSecondary, primary, secondary)
	require.NoError(t, err)

	resp, err := p.Query(context.Background(), "soru", "")
	require.NoError(t, err)
	assert.Equal(t, "yanit", resp)
	assert.Equal(t, 0, primary.Calls)
}

func TestProviderDualConcatenates(t *testing.T) {
	primary := NewMockBackend("anthropic")
	primary.Responses["soru"] = "birinci"
	secondary := NewMockBackend("openai")
	secondary.Responses["soru"] = "ikinci"

	p, err := NewProvider(ProviderDual, primary, secondary)
	require.NoError(t, err)

	resp, err := p.Query(context.Background(), "soru", "")
	require.NoError(t, err)
	assert.Contains(t, resp, "[anthropic]\nbirinci")
	assert.Contains(t, resp, "[openai]\nikinci")
	assert.True(t, strings.Index(resp, "[anthropic]") < strings.Index(resp, "[openai]"))
}

func TestProviderDualToleratesOneFailure(t *testing.T) {
	primary := NewMockBackend("anthropic")
	primary.Fail = &BackendError{Status: 500}
	secondary := NewMockBackend("openai")
	secondary.Responses["soru"] = "ikinci"

	p, err := NewProvider(ProviderDual, primary, secondary)
	require.NoError(t, err)

	resp, err := p.Query(context.Background(), "soru", "")
	require.NoError(t, err)
	assert.Contains(t, resp, "ikinci")
	assert.NotContains(t, resp, "[anthropic]")
}

func TestProviderDualBothFail(t *testing.T) {
	primary := NewMockBackend("anthropic")
	primary.Fail = &BackendError{Status: 500}
	secondary := NewMockBackend("openai")
	secondary.Fail = &BackendError{Status: 503}

	p, err := NewProvider(ProviderDual, primary, secondary)
	require.NoError(t, err)

	_, err = p.Query(context.Background(), "soru", "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestProviderDualRequiresSecondary(t *testing.T) {
	primary := NewMockBackend("anthropic")
	_, err := NewProvider(ProviderDual, primary, nil)
	require.Error(t, err)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"rate limited", &BackendError{Status: 429}, true},
		{"server error", &BackendError{Status: 502}, true},
		{"bad request", &BackendError{Status: 400}, false},
		{"temporary flag", &BackendError{Temporary: true}, true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestProviderStatus(t *testing.T) {
	primary := NewMockBackend("anthropic")
	secondary := NewMockBackend("openai")

	p, err := NewProvider(ProviderDual, primary, secondary, WithFallback(true))
	require.NoError(t, err)

	s := p.Status()
	assert.Equal(t, ProviderDual, s.Type)
	assert.Equal(t, "anthropic", s.Primary)
	assert.Equal(t, "openai", s.Secondary)
	assert.True(t, s.Fallback)
	assert.True(t, p.IsAvailable())
}
