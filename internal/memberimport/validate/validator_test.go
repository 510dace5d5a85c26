package validate

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/config"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	"github.com/leavehub/leavehub/internal/memberimport/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 { return &v }

type fixture struct {
	ref      ReferenceData
	policy   config.ImportPolicy
	vacation allowancedomain.AllowanceType
	overtime allowancedomain.AllowanceType
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	vacation := allowancedomain.AllowanceType{ID: node.Generate(), Name: "Vacation", Unit: allowancedomain.UnitDays}
	overtime := allowancedomain.AllowanceType{ID: node.Generate(), Name: "Overtime", Unit: allowancedomain.UnitHours}

	return fixture{
		ref: ReferenceData{
			Departments: []departmentdomain.Department{
				{ID: node.Generate(), Name: "Engineering"},
				{ID: node.Generate(), Name: "Research"},
			},
			PublicHolidays: []holidaydomain.PublicHoliday{
				{ID: node.Generate(), Name: "United Kingdom"},
			},
			AllowanceTypes: []allowancedomain.AllowanceType{vacation, overtime},
			ExistingEmails: map[string]struct{}{
				"taken@example.com": {},
			},
		},
		policy:   config.DefaultImportPolicy(),
		vacation: vacation,
		overtime: overtime,
	}
}

func (f fixture) validRow() *domain.ImportRow {
	return &domain.ImportRow{
		Name:             "Ada Lovelace",
		Email:            "ada@example.com",
		Department:       "Engineering",
		PublicHoliday:    "United Kingdom",
		AccountEnabled:   "Active",
		ValidationStatus: domain.RowPending,
		Allowances: []domain.PreAllowance{
			{TypeID: f.vacation.ID.String(), Name: "Vacation", CurrentYear: float(20), NextYear: float(22)},
			{TypeID: f.overtime.ID.String(), Name: "Overtime", CurrentYear: float(450), NextYear: float(450)},
		},
	}
}

func TestValidRowPasses(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()

	summary := Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowValid, row.ValidationStatus)
	assert.Empty(t, row.ErrorMessage)
	assert.Equal(t, memberdomain.StatusActive, row.ResolvedStatus)
	require.NotNil(t, row.ResolvedHolidayID)
	require.Len(t, row.ResolvedDepartmentIDs, 1)
	assert.Equal(t, 1, summary.Valid)
}

func TestEmptyRowsShortCircuit(t *testing.T) {
	f := newFixture(t)
	summary := Validate(nil, f.ref, f.policy)
	assert.True(t, summary.Empty)
	assert.Zero(t, summary.Total)
}

func TestExistingEmailMarksSkip(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Email = "taken@example.com"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowSkip, row.ValidationStatus)
	assert.Equal(t, "account already exists, entry skipped", row.ErrorMessage)
}

// The existing-email check compares the row's email as typed against a
// lower-cased set, so a mixed-case spreadsheet value never matches.
func TestExistingEmailCompareIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Email = "Taken@example.com"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowValid, row.ValidationStatus)
}

// Regression: rule 1 does not stop the chain, so a skip can be overwritten
// by a later invalid classification.
func TestSkipCanBeOverwrittenByLaterRule(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Email = "taken@example.com"
	row.Department = ""

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowInvalid, row.ValidationStatus)
	assert.Equal(t, "department required", row.ErrorMessage)
}

func TestRuleOrderFirstFailureWins(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Department = ""
	row.PublicHoliday = ""
	row.AccountEnabled = "nonsense"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowInvalid, row.ValidationStatus)
	assert.Equal(t, "department required", row.ErrorMessage)
}

func TestPublicHolidayRequired(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.PublicHoliday = ""

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, "public holiday required", row.ErrorMessage)
}

func TestAllowanceCountMustMatchReference(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Allowances = row.Allowances[:1]

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, "allowances required", row.ErrorMessage)
}

func TestUnknownAllowanceTypeFailsCorrectness(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Allowances[0] = domain.PreAllowance{
		TypeID: "Sabbatical", Name: "Sabbatical",
		CurrentYear: float(10), NextYear: float(10),
	}

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowInvalid, row.ValidationStatus)
	assert.Contains(t, row.ErrorMessage, "allowance type unknown: Sabbatical")
}

func TestHourAllowanceMissingYearFails(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Allowances[1].NextYear = nil

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowInvalid, row.ValidationStatus)
	assert.Contains(t, row.ErrorMessage, "hour allowance incomplete: Overtime")
}

func TestAggregatedAllowanceMessageCombinesFragments(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Allowances[0].CurrentYear = nil // day type incomplete
	row.Allowances[1].NextYear = nil    // hour type incomplete

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Contains(t, row.ErrorMessage, "hour allowance incomplete")
	assert.Contains(t, row.ErrorMessage, "day allowance incomplete")
}

func TestDepartmentResolutionStopsAtFirstUnresolved(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Department = "Engineering; Ghosts ; Phantoms"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, "department does not exist: Ghosts", row.ErrorMessage)
	assert.Empty(t, row.ResolvedDepartmentIDs)
}

func TestDepartmentResolutionTrimsAndResolvesAll(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Department = " Engineering ; Research "

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowValid, row.ValidationStatus)
	assert.Len(t, row.ResolvedDepartmentIDs, 2)
}

func TestUnknownPublicHolidayFails(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.PublicHoliday = "Atlantis"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, "public holiday does not exist", row.ErrorMessage)
}

func TestMalformedEmailFails(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.Email = "not-an-email"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, "email invalid", row.ErrorMessage)
}

func TestBadStartDateFails(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.EmploymentStartDate = "sometime soon"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, "date invalid", row.ErrorMessage)
}

func TestStartDateParsed(t *testing.T) {
	f := newFixture(t)
	row := f.validRow()
	row.EmploymentStartDate = "2024-03-01"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowValid, row.ValidationStatus)
	require.NotNil(t, row.ResolvedStartDate)
	assert.Equal(t, 2024, row.ResolvedStartDate.Year())
}

func TestAccountEnabledLabelNormalization(t *testing.T) {
	f := newFixture(t)

	active := f.validRow()
	inactive := f.validRow()
	inactive.AccountEnabled = "Inactive"
	bogus := f.validRow()
	bogus.AccountEnabled = "Enabled"

	summary := Validate([]*domain.ImportRow{active, inactive, bogus}, f.ref, f.policy)

	assert.Equal(t, memberdomain.StatusActive, active.ResolvedStatus)
	assert.Equal(t, memberdomain.StatusInactive, inactive.ResolvedStatus)
	assert.Equal(t, "value invalid", bogus.ErrorMessage)
	assert.Equal(t, 2, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)
}

func TestLocalizedLabelsFromPolicy(t *testing.T) {
	f := newFixture(t)
	f.policy.ActiveLabel = "Aktiv"
	f.policy.InactiveLabel = "Inaktiv"

	row := f.validRow()
	row.AccountEnabled = "Aktiv"

	Validate([]*domain.ImportRow{row}, f.ref, f.policy)

	assert.Equal(t, domain.RowValid, row.ValidationStatus)
	assert.Equal(t, memberdomain.StatusActive, row.ResolvedStatus)
}
