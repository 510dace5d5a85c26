package domain

import (
	"context"
	"errors"
)

type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (Department, error)
	List(ctx context.Context) ([]Department, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_department_name")
	ErrDepartmentExists    = errors.New("department_exists")
)
