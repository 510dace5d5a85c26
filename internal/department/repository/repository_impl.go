package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/department/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, department *domain.Department) error {
	return db.WithContext(ctx).Create(department).Error
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.Department, error) {
	var departments []domain.Department
	err := db.WithContext(ctx).
		Model(&domain.Department{}).
		Where("org_id = ?", orgID).
		Order("name asc").
		Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}
