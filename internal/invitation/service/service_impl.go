package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/leavehub/leavehub/internal/invitation/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	orgdomain "github.com/leavehub/leavehub/internal/organization/domain"
	"github.com/leavehub/leavehub/internal/orgcontext"
	"github.com/leavehub/leavehub/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Members memberdomain.Service
	Orgs    orgdomain.Service
	Email   email.Provider
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	members memberdomain.Service
	orgs    orgdomain.Service
	email   email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invitation.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		members: p.Members,
		orgs:    p.Orgs,
		email:   p.Email,
	}
}

// Invite creates the member account with its departments and allowances,
// records the invitation, then sends the email. A failed send does not roll
// back the account; the invitation stays PENDING for a later resend.
func (s *Service) Invite(ctx context.Context, req domain.InviteRequest) (domain.InviteResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.InviteResult{}, memberdomain.ErrInvalidOrganization
	}

	address := strings.TrimSpace(req.Email)
	if address == "" || !strings.Contains(address, "@") {
		return domain.InviteResult{}, domain.ErrInvalidEmail
	}

	member, err := s.members.Create(ctx, memberdomain.CreateMemberRequest{
		Name:                req.Name,
		Email:               address,
		CustomID:            req.CustomID,
		Status:              req.Status,
		DepartmentIDs:       req.DepartmentIDs,
		PublicHolidayID:     req.PublicHolidayID,
		EmploymentStartDate: req.EmploymentStartDate,
		Allowances:          req.Allowances,
	})
	if err != nil {
		return domain.InviteResult{}, err
	}

	now := time.Now().UTC()
	invitation := domain.Invitation{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		MemberID:  member.ID,
		Email:     address,
		Code:      uuid.NewString(),
		Status:    domain.Pending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &invitation); err != nil {
		return domain.InviteResult{}, err
	}

	orgName := ""
	if org, err := s.orgs.GetByID(ctx, orgID.String()); err == nil {
		orgName = org.Name
	}

	sent := true
	if err := s.email.SendTemplate(ctx, []string{address}, "invite_member", map[string]interface{}{
		"org_name":    orgName,
		"member_name": member.Name,
		"invite_url":  "https://app.leavehub.app/join/" + invitation.Code,
	}); err != nil {
		sent = false
		s.log.Warn("invitation email failed",
			zap.String("email", address),
			zap.Error(err),
		)
	}

	return domain.InviteResult{
		Member:     member,
		Invitation: invitation,
		EmailSent:  sent,
	}, nil
}

// Verify marks a pending invitation as completed.
func (s *Service) Verify(ctx context.Context, req domain.VerifyRequest) error {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.ErrInvalidCode
	}

	invitation, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return err
	}
	if invitation == nil {
		return domain.ErrInvalidCode
	}
	if invitation.Status == domain.Completed {
		return nil
	}

	invitation.Status = domain.Completed
	invitation.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, s.db, invitation)
}
