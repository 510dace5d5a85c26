package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/analytics"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/config"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
	invitationdomain "github.com/leavehub/leavehub/internal/invitation/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	"github.com/leavehub/leavehub/internal/memberimport/domain"
	"github.com/leavehub/leavehub/internal/memberimport/wizard"
	"github.com/leavehub/leavehub/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Manual fakes

type fakeDepartments struct {
	departments []departmentdomain.Department
}

func (f *fakeDepartments) Create(ctx context.Context, req departmentdomain.CreateDepartmentRequest) (departmentdomain.Department, error) {
	return departmentdomain.Department{}, nil
}
func (f *fakeDepartments) List(ctx context.Context) ([]departmentdomain.Department, error) {
	return f.departments, nil
}

type fakeHolidays struct {
	holidays []holidaydomain.PublicHoliday
}

func (f *fakeHolidays) Create(ctx context.Context, req holidaydomain.CreatePublicHolidayRequest) (holidaydomain.PublicHoliday, error) {
	return holidaydomain.PublicHoliday{}, nil
}
func (f *fakeHolidays) List(ctx context.Context) ([]holidaydomain.PublicHoliday, error) {
	return f.holidays, nil
}

type fakeAllowanceTypes struct {
	types []allowancedomain.AllowanceType
}

func (f *fakeAllowanceTypes) Create(ctx context.Context, req allowancedomain.CreateAllowanceTypeRequest) (allowancedomain.AllowanceType, error) {
	return allowancedomain.AllowanceType{}, nil
}
func (f *fakeAllowanceTypes) List(ctx context.Context) ([]allowancedomain.AllowanceType, error) {
	return f.types, nil
}

type fakeMembers struct {
	emails      map[string]struct{}
	invalidated int
}

func (f *fakeMembers) Create(ctx context.Context, req memberdomain.CreateMemberRequest) (memberdomain.Member, error) {
	return memberdomain.Member{}, nil
}
func (f *fakeMembers) List(ctx context.Context, req memberdomain.ListMembersRequest) (memberdomain.ListMembersResponse, error) {
	return memberdomain.ListMembersResponse{}, nil
}
func (f *fakeMembers) ExistingEmails(ctx context.Context) (map[string]struct{}, error) {
	return f.emails, nil
}
func (f *fakeMembers) BulkArchive(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{}, nil
}
func (f *fakeMembers) BulkUnarchive(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{}, nil
}
func (f *fakeMembers) BulkActivate(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{}, nil
}
func (f *fakeMembers) BulkDelete(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{}, nil
}
func (f *fakeMembers) InvalidateListCache(ctx context.Context) {
	f.invalidated++
}

type fakeInvitations struct {
	calls   []string
	failFor map[string]error
	delay   time.Duration
}

func (f *fakeInvitations) Invite(ctx context.Context, req invitationdomain.InviteRequest) (invitationdomain.InviteResult, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.calls = append(f.calls, req.Email)
	if err := f.failFor[req.Email]; err != nil {
		return invitationdomain.InviteResult{}, err
	}
	return invitationdomain.InviteResult{EmailSent: true}, nil
}

func (f *fakeInvitations) Verify(ctx context.Context, req invitationdomain.VerifyRequest) error {
	return nil
}

type fixture struct {
	svc     domain.Service
	members *fakeMembers
	invites *fakeInvitations
	types   []allowancedomain.AllowanceType
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	types := []allowancedomain.AllowanceType{
		{ID: node.Generate(), Name: "Vacation", Unit: allowancedomain.UnitDays},
	}
	members := &fakeMembers{emails: map[string]struct{}{"taken@example.com": {}}}
	invites := &fakeInvitations{failFor: map[string]error{}}

	svc := New(Params{
		Log:    zap.NewNop(),
		Policy: config.NewStaticImportPolicyHolder(config.DefaultImportPolicy()),
		Departments: &fakeDepartments{departments: []departmentdomain.Department{
			{ID: node.Generate(), Name: "Engineering"},
		}},
		Holidays: &fakeHolidays{holidays: []holidaydomain.PublicHoliday{
			{ID: node.Generate(), Name: "United Kingdom"},
		}},
		AllowanceTypes: &fakeAllowanceTypes{types: types},
		Members:        members,
		Invitations:    invites,
		Tracker:        analytics.NoOpTracker{},
	})

	return &fixture{
		svc:     svc,
		members: members,
		invites: invites,
		types:   types,
		ctx:     orgcontext.WithOrgID(context.Background(), int64(node.Generate())),
	}
}

func workbookBytes(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()
	for r, cells := range rows {
		for c, value := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, workbook.SetCellValue("Sheet1", cell, value))
		}
	}
	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func importHeaders() []string {
	return []string{
		"Name", "Email", "Department", "Public Holiday",
		"Employment Start Date", "Custom ID", "Account Enabled",
		"Vacation (days) current", "Vacation (days) next",
	}
}

func TestUploadOpensSessionOnValidationStep(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Ada", "ada@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})

	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, 1, session.Summary.Valid)
	assert.Zero(t, session.Summary.Invalid)

	current := wizard.Current(session.Steps)
	require.NotNil(t, current)
	assert.Equal(t, domain.StepValidate, current.Name)

	got, err := f.svc.Get(f.ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestUploadRejectsGarbageFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Upload(f.ctx, "junk.xlsx", bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, domain.ErrUnreadableFile)
}

func TestSessionIsOrgScoped(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Ada", "ada@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)

	otherOrg := orgcontext.WithOrgID(context.Background(), 42)
	_, err = f.svc.Get(otherOrg, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAdvanceGatedWhileRowsInvalid(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Ada", "ada@example.com", "", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)
	require.Equal(t, 1, session.Summary.Invalid)

	_, err = f.svc.Advance(f.ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidRowsRemain)
}

// Scenario: one row references a missing department, the other is clean.
// The bad row stays invalid with the department named in its message; the
// clean row is invited by the sweep.
func TestDispatchSweepsAroundInvalidRows(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Bad Row", "bad@example.com", "Warp Drive", "United Kingdom", "", "", "Active", "20", "22"},
		{"Good Row", "good@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)
	require.Equal(t, 1, session.Summary.Invalid)
	require.Equal(t, 1, session.Summary.Valid)

	session, err = f.svc.Dispatch(f.ctx, session.ID)
	require.NoError(t, err)

	bad, good := session.Rows[0], session.Rows[1]
	assert.Equal(t, domain.RowInvalid, bad.ValidationStatus)
	assert.Contains(t, bad.ErrorMessage, "Warp Drive")
	assert.False(t, bad.Invited)

	assert.True(t, good.Invited)
	assert.Equal(t, []string{"good@example.com"}, f.invites.calls)
	assert.Equal(t, 1, f.members.invalidated)
}

// Scenario: an email that already has an account is marked skip and flagged
// invited without any invite call.
func TestDispatchSkipsExistingAccountsWithoutCalls(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Taken", "taken@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)
	require.Equal(t, 1, session.Summary.Skipped)

	session, err = f.svc.Dispatch(f.ctx, session.ID)
	require.NoError(t, err)

	assert.True(t, session.Rows[0].Invited)
	assert.Empty(t, f.invites.calls)
	assert.Equal(t, 1, f.members.invalidated)
}

func TestDispatchPreservesRowOrder(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"One", "one@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
		{"Two", "two@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
		{"Three", "three@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)

	_, err = f.svc.Dispatch(f.ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"one@example.com", "two@example.com", "three@example.com"}, f.invites.calls)
}

// Two overlapping dispatches of the same session must not double-invite a
// row: the second waits on the session lock and then fails the step check.
func TestConcurrentDispatchInvitesEachRowOnce(t *testing.T) {
	f := newFixture(t)
	f.invites.delay = 25 * time.Millisecond

	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Ada", "ada@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.Dispatch(f.ctx, session.ID)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []string{"ada@example.com"}, f.invites.calls)

	succeeded, rejected := 0, 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrWizardComplete)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
}

func TestDispatchSendsNormalizedEmail(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Ada", "Ada.Lovelace@Example.COM", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)

	_, err = f.svc.Dispatch(f.ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"ada.lovelace@example.com"}, f.invites.calls)
}

func TestDispatchRecordsFailureAndContinues(t *testing.T) {
	f := newFixture(t)
	f.invites.failFor["boom@example.com"] = errors.New("downstream exploded")

	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Boom", "boom@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
		{"Fine", "fine@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)

	session, err = f.svc.Dispatch(f.ctx, session.ID)
	require.NoError(t, err)

	boom, fine := session.Rows[0], session.Rows[1]
	assert.False(t, boom.Invited)
	assert.Contains(t, boom.ErrorMessage, "downstream exploded")
	assert.True(t, fine.Invited)
	assert.Len(t, f.invites.calls, 2)
}

func TestDispatchTerminatesWizard(t *testing.T) {
	f := newFixture(t)
	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"Ada", "ada@example.com", "Engineering", "United Kingdom", "", "", "Active", "20", "22"},
	})
	session, err := f.svc.Upload(f.ctx, "members.xlsx", buf)
	require.NoError(t, err)

	session, err = f.svc.Dispatch(f.ctx, session.ID)
	require.NoError(t, err)

	assert.Nil(t, wizard.Current(session.Steps))
	for _, step := range session.Steps {
		assert.Equal(t, domain.StepComplete, step.Status)
	}

	_, err = f.svc.Dispatch(f.ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrWizardComplete)
}

func TestTemplateProducesWorkbook(t *testing.T) {
	f := newFixture(t)

	raw, err := f.svc.Template(f.ctx)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer workbook.Close()
	assert.Contains(t, workbook.GetSheetList(), "Members")
}

func TestUploadEnforcesRowCap(t *testing.T) {
	policy := config.DefaultImportPolicy()
	policy.MaxRows = 1

	f := newFixture(t)
	svc := New(Params{
		Log:            zap.NewNop(),
		Policy:         config.NewStaticImportPolicyHolder(policy),
		Departments:    &fakeDepartments{},
		Holidays:       &fakeHolidays{},
		AllowanceTypes: &fakeAllowanceTypes{},
		Members:        f.members,
		Invitations:    f.invites,
		Tracker:        analytics.NoOpTracker{},
	})

	buf := workbookBytes(t, [][]string{
		importHeaders(),
		{"One", "one@example.com", "Engineering", "United Kingdom", "", "", "Active"},
		{"Two", "two@example.com", "Engineering", "United Kingdom", "", "", "Active"},
	})
	_, err := svc.Upload(f.ctx, "members.xlsx", buf)
	assert.ErrorIs(t, err, domain.ErrTooManyRows)
}
