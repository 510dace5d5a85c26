package domain

import (
	"context"
	"errors"
)

type CreateAllowanceTypeRequest struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type Service interface {
	Create(ctx context.Context, req CreateAllowanceTypeRequest) (AllowanceType, error)
	List(ctx context.Context) ([]AllowanceType, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_allowance_type_name")
	ErrInvalidUnit         = errors.New("invalid_allowance_unit")
	ErrAllowanceTypeExists = errors.New("allowance_type_exists")
)
