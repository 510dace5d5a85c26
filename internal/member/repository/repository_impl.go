package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/member/domain"
	"github.com/leavehub/leavehub/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Create(member).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).
		First(&member, "org_id = ? AND id = ?", orgID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListMemberFilter, page pagination.Pagination) ([]*domain.Member, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("org_id = ?", orgID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}

	var members []*domain.Member
	err := stmt.
		Order("created_at desc, id desc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) ListEmailsByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]string, error) {
	var emails []string
	err := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("org_id = ? AND email <> ''", orgID).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *repo) ReplaceDepartments(ctx context.Context, db *gorm.DB, memberID snowflake.ID, departmentIDs []snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", memberID).Delete(&domain.MemberDepartment{}).Error; err != nil {
			return err
		}
		if len(departmentIDs) == 0 {
			return nil
		}
		links := make([]domain.MemberDepartment, 0, len(departmentIDs))
		for _, departmentID := range departmentIDs {
			links = append(links, domain.MemberDepartment{
				MemberID:     memberID,
				DepartmentID: departmentID,
			})
		}
		return tx.Create(&links).Error
	})
}

func (r *repo) InsertAllowances(ctx context.Context, db *gorm.DB, allowances []domain.Allowance) error {
	if len(allowances) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&allowances).Error
}

func (r *repo) BulkUpdateStatus(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID, status domain.Status, archivedAt *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("org_id = ? AND id IN ?", orgID, ids).
		Updates(map[string]interface{}{
			"status":      status,
			"archived_at": archivedAt,
			"updated_at":  time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func (r *repo) BulkDelete(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id IN ?", ids).Delete(&domain.MemberDepartment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("org_id = ? AND member_id IN ?", orgID, ids).Delete(&domain.Allowance{}).Error; err != nil {
			return err
		}
		result := tx.Where("org_id = ? AND id IN ?", orgID, ids).Delete(&domain.Member{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}
