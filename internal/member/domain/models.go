// Package domain contains persistence models for organization members.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is a member's account lifecycle state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// Member is a workforce account within an organization.
type Member struct {
	ID                  snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID               snowflake.ID      `gorm:"not null;index" json:"org_id"`
	Name                string            `gorm:"type:text;not null" json:"name"`
	Email               string            `gorm:"type:text;index" json:"email"`
	CustomID            string            `gorm:"type:text;column:custom_id" json:"custom_id"`
	Status              Status            `gorm:"type:text;not null;default:ACTIVE" json:"status"`
	PublicHolidayID     *snowflake.ID     `gorm:"column:public_holiday_id" json:"public_holiday_id,omitempty"`
	EmploymentStartDate *time.Time        `gorm:"type:date" json:"employment_start_date,omitempty"`
	Metadata            datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	ArchivedAt          *time.Time        `gorm:"" json:"archived_at,omitempty"`
	CreatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "members" }

// MemberDepartment links a member to a department.
type MemberDepartment struct {
	MemberID     snowflake.ID `gorm:"primaryKey" json:"member_id"`
	DepartmentID snowflake.ID `gorm:"primaryKey" json:"department_id"`
}

// TableName sets the database table name.
func (MemberDepartment) TableName() string { return "member_departments" }

// Allowance is a member's granted balance for one allowance type, covering
// the current and the next allowance year.
type Allowance struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID `gorm:"not null;index" json:"org_id"`
	MemberID        snowflake.ID `gorm:"not null;index" json:"member_id"`
	AllowanceTypeID snowflake.ID `gorm:"not null;index" json:"allowance_type_id"`
	CurrentYear     float64      `gorm:"not null;default:0" json:"current_year"`
	NextYear        float64      `gorm:"not null;default:0" json:"next_year"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Allowance) TableName() string { return "allowances" }
