package checkout

import (
	"context"
	"testing"

	"github.com/leavehub/leavehub/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesByNormalizedName(t *testing.T) {
	registry := NewRegistry(NewNoop())

	assert.True(t, registry.ProviderExists("noop"))
	assert.True(t, registry.ProviderExists("  NoOp "))
	assert.False(t, registry.ProviderExists("stripe"))

	adapter, err := registry.Adapter("NOOP")
	require.NoError(t, err)
	assert.Equal(t, "noop", adapter.Provider())

	_, err = registry.Adapter("stripe")
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestRegistrySkipsNilAdapters(t *testing.T) {
	registry := NewRegistry(nil, NewNoop())
	assert.True(t, registry.ProviderExists("noop"))
}

func TestNoopSessionEchoesSuccessURL(t *testing.T) {
	session, err := NewNoop().CreateSession(context.Background(), domain.CheckoutRequest{
		SuccessURL: "https://app.example.com/billing/done",
	})
	require.NoError(t, err)

	assert.Equal(t, "noop", session.Provider)
	assert.Equal(t, "https://app.example.com/billing/done", session.URL)
	assert.NotEmpty(t, session.SessionID)
}
