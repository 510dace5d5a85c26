package domain

import (
	"context"
	"errors"
)

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
}

var (
	ErrInvalidName = errors.New("invalid_organization_name")
	ErrNotFound    = errors.New("organization_not_found")
)
