package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type InvitationStatus string

var (
	Pending   InvitationStatus = "PENDING"
	Completed InvitationStatus = "COMPLETED"
)

// Invitation records an outbound join invitation for a member account.
type Invitation struct {
	ID        snowflake.ID     `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID     `gorm:"not null;index" json:"organization_id"`
	MemberID  snowflake.ID     `gorm:"not null;index" json:"member_id"`
	Email     string           `gorm:"not null" json:"email"`
	Code      string           `gorm:"column:code;uniqueIndex" json:"code"`
	Status    InvitationStatus `gorm:"column:status" json:"status"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "invitations" }
