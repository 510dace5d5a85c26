package domain

import (
	"context"
	"errors"
)

type CreatePublicHolidayRequest struct {
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

type Service interface {
	Create(ctx context.Context, req CreatePublicHolidayRequest) (PublicHoliday, error)
	List(ctx context.Context) ([]PublicHoliday, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_holiday_name")
	ErrHolidayExists       = errors.New("public_holiday_exists")
)
