package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Plan string

const (
	PlanFree     Plan = "FREE"
	PlanCore     Plan = "CORE"
	PlanComplete Plan = "COMPLETE"
)

// Status is derived from the subscription's flags, never stored.
type Status string

const (
	StatusFree         Status = "FREE"
	StatusTrialing     Status = "TRIALING"
	StatusTrialExpired Status = "TRIAL_EXPIRED"
	StatusActive       Status = "ACTIVE"
	StatusCanceling    Status = "CANCELING"
	StatusCanceled     Status = "CANCELED"
	StatusPastDue      Status = "PAST_DUE"
)

// Subscription is the per-organization billing record.
type Subscription struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID             snowflake.ID      `gorm:"not null;uniqueIndex" json:"org_id"`
	Plan              Plan              `gorm:"type:text;not null;default:FREE" json:"plan"`
	Seats             int               `gorm:"not null;default:1" json:"seats"`
	Trialing          bool              `gorm:"not null;default:false" json:"trialing"`
	TrialEndsAt       *time.Time        `gorm:"" json:"trial_ends_at,omitempty"`
	CancelAtPeriodEnd bool              `gorm:"not null;default:false" json:"cancel_at_period_end"`
	PeriodEndsAt      *time.Time        `gorm:"" json:"period_ends_at,omitempty"`
	CanceledAt        *time.Time        `gorm:"" json:"canceled_at,omitempty"`
	Metadata          datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// ParsePlan normalizes a raw plan value.
func ParsePlan(raw string) (Plan, bool) {
	switch Plan(strings.ToUpper(strings.TrimSpace(raw))) {
	case PlanFree:
		return PlanFree, true
	case PlanCore:
		return PlanCore, true
	case PlanComplete:
		return PlanComplete, true
	default:
		return "", false
	}
}

// DeriveStatus computes the effective subscription status from the record's
// flags. Cancellation wins over everything, an active trial wins over the
// paid flags, and a free plan never reports a billing state.
func DeriveStatus(sub Subscription, now time.Time) Status {
	if sub.CanceledAt != nil && !sub.CanceledAt.After(now) {
		return StatusCanceled
	}
	if sub.Trialing {
		if sub.TrialEndsAt != nil && sub.TrialEndsAt.After(now) {
			return StatusTrialing
		}
		return StatusTrialExpired
	}
	if sub.Plan == PlanFree || sub.Plan == "" {
		return StatusFree
	}
	if sub.CancelAtPeriodEnd {
		if sub.PeriodEndsAt != nil && sub.PeriodEndsAt.After(now) {
			return StatusCanceling
		}
		return StatusCanceled
	}
	if sub.PeriodEndsAt != nil && !sub.PeriodEndsAt.After(now) {
		return StatusPastDue
	}
	return StatusActive
}
