package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListMemberFilter struct {
	Status Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, member *Member) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Member, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListMemberFilter, page pagination.Pagination) ([]*Member, error)
	ListEmailsByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]string, error)
	ReplaceDepartments(ctx context.Context, db *gorm.DB, memberID snowflake.ID, departmentIDs []snowflake.ID) error
	InsertAllowances(ctx context.Context, db *gorm.DB, allowances []Allowance) error
	BulkUpdateStatus(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID, status Status, archivedAt *time.Time) (int64, error)
	BulkDelete(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) (int64, error)
}
