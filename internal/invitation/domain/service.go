package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
)

// InviteRequest creates a member account and sends the join invitation.
type InviteRequest struct {
	Name                string                         `json:"name"`
	Email               string                         `json:"email"`
	CustomID            string                         `json:"custom_id"`
	Status              memberdomain.Status            `json:"status"`
	DepartmentIDs       []snowflake.ID                 `json:"department_ids"`
	PublicHolidayID     *snowflake.ID                  `json:"public_holiday_id"`
	EmploymentStartDate *time.Time                     `json:"employment_start_date"`
	Allowances          []memberdomain.AllowanceGrant `json:"allowances"`
}

// InviteResult reports the created member and whether the email went out.
type InviteResult struct {
	Member     memberdomain.Member `json:"member"`
	Invitation Invitation          `json:"invitation"`
	EmailSent  bool                `json:"email_sent"`
}

type VerifyRequest struct {
	Code string `json:"code"`
}

type Service interface {
	Invite(ctx context.Context, req InviteRequest) (InviteResult, error)
	Verify(ctx context.Context, req VerifyRequest) error
}

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidCode  = errors.New("invalid_invitation_code")
)
