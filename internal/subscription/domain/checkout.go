package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// CheckoutRequest asks a provider for a hosted checkout session.
type CheckoutRequest struct {
	OrgID         snowflake.ID
	Plan          Plan
	Seats         int
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the hosted page the operator is redirected to.
type CheckoutSession struct {
	Provider  string `json:"provider"`
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutAdapter creates hosted checkout sessions for one provider.
type CheckoutAdapter interface {
	Provider() string
	CreateSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
}

var (
	ErrProviderNotFound = errors.New("checkout_provider_not_found")
	ErrInvalidConfig    = errors.New("invalid_checkout_config")
	ErrCheckoutFailed   = errors.New("checkout_failed")
)
