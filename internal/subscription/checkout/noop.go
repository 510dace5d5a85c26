package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/leavehub/leavehub/internal/subscription/domain"
)

// NoopAdapter returns the success URL directly, used in development and tests.
type NoopAdapter struct{}

func NewNoop() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) Provider() string {
	return "noop"
}

func (a *NoopAdapter) CreateSession(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error) {
	return domain.CheckoutSession{
		Provider:  a.Provider(),
		SessionID: "noop_" + uuid.NewString(),
		URL:       req.SuccessURL,
	}, nil
}
