package domain

import (
	"context"
	"errors"
)

// SubscriptionView is a subscription with its derived status.
type SubscriptionView struct {
	Subscription
	Status Status `json:"status"`
}

// UpgradeRequest starts a plan upgrade through the configured provider.
type UpgradeRequest struct {
	Plan  string `json:"plan"`
	Seats int    `json:"seats"`
}

type Service interface {
	// Get returns the org's subscription, lazily creating the free-plan
	// record on first read.
	Get(ctx context.Context) (SubscriptionView, error)
	Upgrade(ctx context.Context, req UpgradeRequest) (CheckoutSession, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidPlan         = errors.New("invalid_plan")
)
