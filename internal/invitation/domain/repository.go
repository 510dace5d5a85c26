package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invitation *Invitation) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Invitation, error)
	Update(ctx context.Context, db *gorm.DB, invitation *Invitation) error
}
