// Package domain contains persistence models for leave allowance types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Unit is the measure an allowance type is granted in.
type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

// AllowanceType is a category of paid leave (e.g. Vacation, Sick) with a unit.
type AllowanceType struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_allowance_types_org_name,priority:1" json:"org_id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_allowance_types_org_name,priority:2" json:"name"`
	Unit      Unit         `gorm:"type:text;not null" json:"unit"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (AllowanceType) TableName() string { return "allowance_types" }

// IsHours reports whether the type is granted in hours.
func (t AllowanceType) IsHours() bool { return t.Unit == UnitHours }
