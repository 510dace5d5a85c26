// Package domain contains persistence models for public-holiday schedules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PublicHoliday is a named holiday schedule assigned to members.
type PublicHoliday struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index;uniqueIndex:ux_public_holidays_org_name,priority:1" json:"org_id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_public_holidays_org_name,priority:2" json:"name"`
	CountryCode string       `gorm:"type:text;column:country_code" json:"country_code"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PublicHoliday) TableName() string { return "public_holidays" }
