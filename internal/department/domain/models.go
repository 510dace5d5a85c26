// Package domain contains persistence models for the department service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Department groups members for reporting and approval routing.
type Department struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_departments_org_name,priority:1" json:"org_id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_departments_org_name,priority:2" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Department) TableName() string { return "departments" }
