package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/holiday/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, holiday *domain.PublicHoliday) error {
	return db.WithContext(ctx).Create(holiday).Error
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]domain.PublicHoliday, error) {
	var holidays []domain.PublicHoliday
	err := db.WithContext(ctx).
		Model(&domain.PublicHoliday{}).
		Where("org_id = ?", orgID).
		Order("name asc").
		Find(&holidays).Error
	if err != nil {
		return nil, err
	}
	return holidays, nil
}
