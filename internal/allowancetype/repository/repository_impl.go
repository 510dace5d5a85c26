package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/allowancetype/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, allowanceType *domain.AllowanceType) error {
	return db.WithContext(ctx).Create(allowanceType).Error
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.AllowanceType, error) {
	var types []domain.AllowanceType
	err := db.WithContext(ctx).
		Model(&domain.AllowanceType{}).
		Where("org_id = ?", orgID).
		Order("name asc").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}
