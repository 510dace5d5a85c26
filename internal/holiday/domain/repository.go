package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, holiday *PublicHoliday) error
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]PublicHoliday, error)
}
