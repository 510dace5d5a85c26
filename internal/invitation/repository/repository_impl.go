package repository

import (
	"context"
	"errors"

	"github.com/leavehub/leavehub/internal/invitation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invitation *domain.Invitation) error {
	return db.WithContext(ctx).Create(invitation).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := db.WithContext(ctx).First(&invitation, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, invitation *domain.Invitation) error {
	return db.WithContext(ctx).Save(invitation).Error
}
