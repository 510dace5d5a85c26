package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/leavehub/leavehub/internal/analytics"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/cache"
	"github.com/leavehub/leavehub/internal/config"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
	invitationdomain "github.com/leavehub/leavehub/internal/invitation/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	"github.com/leavehub/leavehub/internal/memberimport/domain"
	"github.com/leavehub/leavehub/internal/memberimport/sheet"
	"github.com/leavehub/leavehub/internal/memberimport/validate"
	"github.com/leavehub/leavehub/internal/memberimport/wizard"
	"github.com/leavehub/leavehub/internal/observability/metrics"
	"github.com/leavehub/leavehub/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log            *zap.Logger
	Policy         *config.ImportPolicyHolder
	Departments    departmentdomain.Service
	Holidays       holidaydomain.Service
	AllowanceTypes allowancedomain.Service
	Members        memberdomain.Service
	Invitations    invitationdomain.Service
	Tracker        analytics.Tracker
	Metrics        *metrics.Metrics `optional:"true"`
}

type Service struct {
	log            *zap.Logger
	policy         *config.ImportPolicyHolder
	departments    departmentdomain.Service
	holidays       holidaydomain.Service
	allowanceTypes allowancedomain.Service
	members        memberdomain.Service
	invitations    invitationdomain.Service
	tracker        analytics.Tracker
	metrics        *metrics.Metrics
	sessions       cache.Cache[string, *domain.ImportSession]
}

func New(p Params) domain.Service {
	return &Service{
		log:            p.Log.Named("memberimport.service"),
		policy:         p.Policy,
		departments:    p.Departments,
		holidays:       p.Holidays,
		allowanceTypes: p.AllowanceTypes,
		members:        p.Members,
		invitations:    p.Invitations,
		tracker:        p.Tracker,
		metrics:        p.Metrics,
		sessions:       cache.NewTTLCache[string, *domain.ImportSession](),
	}
}

func (s *Service) Template(ctx context.Context) ([]byte, error) {
	if _, ok := orgcontext.OrgIDFromContext(ctx); !ok {
		return nil, domain.ErrInvalidOrganization
	}

	policy := s.policy.Get()
	types, err := s.allowanceTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	return sheet.BuildTemplate(policy.TemplateSheet, policy.ActiveLabel, types)
}

// Upload parses the workbook, validates every row against current reference
// data, and opens a new wizard session positioned on the validation step.
func (s *Service) Upload(ctx context.Context, fileName string, file io.Reader) (*domain.ImportSession, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	policy := s.policy.Get()

	ref, err := s.loadReferenceData(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := sheet.Parse(file, sheet.NewDecoder(ref.AllowanceTypes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	if len(rows) > policy.MaxRows {
		return nil, domain.ErrTooManyRows
	}
	s.metrics.RecordRowsParsed(ctx, len(rows))

	summary := validate.Validate(rows, ref, policy)
	for _, row := range rows {
		s.metrics.RecordRowValidation(ctx, string(row.ValidationStatus))
	}

	steps := wizard.NewSteps(
		domain.StepDownloadTemplate,
		domain.StepUpload,
		domain.StepValidate,
		domain.StepInvite,
	)
	// Template download and upload are already behind us once a file lands
	// here; the session opens on the validation step.
	_ = wizard.Advance(steps)
	_ = wizard.Advance(steps)

	session := &domain.ImportSession{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		FileName:  fileName,
		Rows:      rows,
		Steps:     steps,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	s.sessions.Set(session.ID, session, policy.SessionTTL)

	s.tracker.Track(ctx, "import_uploaded", map[string]interface{}{
		"rows":    summary.Total,
		"valid":   summary.Valid,
		"invalid": summary.Invalid,
		"skipped": summary.Skipped,
	})
	s.log.Info("import session opened",
		zap.String("session_id", session.ID),
		zap.Int("rows", summary.Total),
		zap.Int("invalid", summary.Invalid),
	)

	session.Lock()
	defer session.Unlock()
	return session.Snapshot(), nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domain.ImportSession, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()
	return session.Snapshot(), nil
}

func (s *Service) Advance(ctx context.Context, sessionID string) (*domain.ImportSession, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	current := wizard.Current(session.Steps)
	if current == nil {
		return nil, domain.ErrWizardComplete
	}
	if current.Name == domain.StepValidate && session.Summary.Invalid > 0 {
		return nil, domain.ErrInvalidRowsRemain
	}
	if err := wizard.Advance(session.Steps); err != nil {
		return nil, domain.ErrWizardComplete
	}
	return session.Snapshot(), nil
}

// Dispatch sweeps the session's rows in original order, one invite at a
// time. Skipped rows are marked invited without a call. A failed invite is
// recorded on its row and the sweep continues; nothing is retried.
func (s *Service) Dispatch(ctx context.Context, sessionID string) (*domain.ImportSession, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// The lock is held for the whole sweep: the validate→invite transition
	// below is the single-flight gate, so a concurrent dispatch waits here
	// and then fails the step check instead of re-inviting rows.
	session.Lock()
	defer session.Unlock()

	current := wizard.Current(session.Steps)
	if current == nil {
		return nil, domain.ErrWizardComplete
	}
	// Dispatch is a best-effort sweep: invalid rows simply stay behind, so
	// unlike Advance it is not gated on a clean validation pass.
	switch current.Name {
	case domain.StepValidate:
		_ = wizard.Advance(session.Steps)
	case domain.StepInvite:
	default:
		return nil, domain.ErrWrongStep
	}

	invited, failed, skipped := 0, 0, 0
	for _, row := range session.Rows {
		if row.Invited {
			continue
		}
		switch row.ValidationStatus {
		case domain.RowSkip:
			row.Invited = true
			skipped++
			s.metrics.RecordInviteOutcome(ctx, "skipped")
		case domain.RowValid:
			if err := s.inviteRow(ctx, row); err != nil {
				row.ErrorMessage = err.Error()
				failed++
				s.metrics.RecordInviteOutcome(ctx, "failed")
				s.log.Warn("invite failed",
					zap.String("session_id", session.ID),
					zap.String("email", row.Email),
					zap.Error(err),
				)
				continue
			}
			row.Invited = true
			invited++
			s.metrics.RecordInviteOutcome(ctx, "invited")
		}
	}

	_ = wizard.Advance(session.Steps)
	s.members.InvalidateListCache(ctx)

	s.tracker.Track(ctx, "import_dispatched", map[string]interface{}{
		"invited": invited,
		"failed":  failed,
		"skipped": skipped,
	})
	s.log.Info("import dispatch finished",
		zap.String("session_id", session.ID),
		zap.Int("invited", invited),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)

	return session.Snapshot(), nil
}

func (s *Service) session(ctx context.Context, sessionID string) (*domain.ImportSession, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	session, found := s.sessions.Get(sessionID)
	if !found || session.OrgID != orgID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) loadReferenceData(ctx context.Context) (validate.ReferenceData, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return validate.ReferenceData{}, err
	}
	holidays, err := s.holidays.List(ctx)
	if err != nil {
		return validate.ReferenceData{}, err
	}
	types, err := s.allowanceTypes.List(ctx)
	if err != nil {
		return validate.ReferenceData{}, err
	}
	emails, err := s.members.ExistingEmails(ctx)
	if err != nil {
		return validate.ReferenceData{}, err
	}
	return validate.ReferenceData{
		Departments:    departments,
		PublicHolidays: holidays,
		AllowanceTypes: types,
		ExistingEmails: emails,
	}, nil
}

func (s *Service) inviteRow(ctx context.Context, row *domain.ImportRow) error {
	grants := make([]memberdomain.AllowanceGrant, 0, len(row.Allowances))
	for _, allowance := range row.Allowances {
		typeID, err := snowflake.ParseString(allowance.TypeID)
		if err != nil {
			// Validation guarantees resolvable ids for valid rows.
			return fmt.Errorf("unresolved allowance type %q", allowance.Name)
		}
		var current, next float64
		if allowance.CurrentYear != nil {
			current = *allowance.CurrentYear
		}
		if allowance.NextYear != nil {
			next = *allowance.NextYear
		}
		grants = append(grants, memberdomain.AllowanceGrant{
			AllowanceTypeID: typeID,
			CurrentYear:     current,
			NextYear:        next,
		})
	}

	// The duplicate check upstream compares the email as typed; only the
	// outbound invite gets the normalized form.
	_, err := s.invitations.Invite(ctx, invitationdomain.InviteRequest{
		Name:                row.Name,
		Email:               strings.ToLower(row.Email),
		CustomID:            row.CustomID,
		Status:              row.ResolvedStatus,
		DepartmentIDs:       row.ResolvedDepartmentIDs,
		PublicHolidayID:     row.ResolvedHolidayID,
		EmploymentStartDate: row.ResolvedStartDate,
		Allowances:          grants,
	})
	return err
}
