// Package validate classifies parsed import rows against reference data.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/config"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	"github.com/leavehub/leavehub/internal/memberimport/domain"
)

// emailPattern is deliberately permissive; it rejects obvious garbage, not
// every RFC corner case.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var startDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"1/2/2006",
	"2006/01/02",
}

// ReferenceData is everything the rule chain cross-checks rows against.
// ExistingEmails must hold lower-cased addresses.
type ReferenceData struct {
	Departments    []departmentdomain.Department
	PublicHolidays []holidaydomain.PublicHoliday
	AllowanceTypes []allowancedomain.AllowanceType
	ExistingEmails map[string]struct{}
}

// Validate mutates every row's ValidationStatus and ErrorMessage through a
// fixed, ordered rule chain; the first failing rule wins and later rules are
// skipped for that row. The one exception is the existing-account rule:
// after marking a row skip, evaluation still proceeds, so a skip can be
// overwritten by a later invalid classification.
//
// The existing-account comparison uses the row's email as typed against the
// lower-cased reference set. A mixed-case spreadsheet email therefore never
// matches; that asymmetry is intentional pending a product decision on
// intended behavior.
func Validate(rows []*domain.ImportRow, ref ReferenceData, policy config.ImportPolicy) domain.Summary {
	if len(rows) == 0 {
		return domain.Summary{Empty: true}
	}

	for _, row := range rows {
		validateRow(row, ref, policy)
	}

	summary := domain.Summary{Total: len(rows)}
	for _, row := range rows {
		switch row.ValidationStatus {
		case domain.RowValid:
			summary.Valid++
		case domain.RowInvalid:
			summary.Invalid++
		case domain.RowSkip:
			summary.Skipped++
		}
	}
	return summary
}

func validateRow(row *domain.ImportRow, ref ReferenceData, policy config.ImportPolicy) {
	// Rule 1: existing account. Marks skip but does not stop the chain.
	if _, exists := ref.ExistingEmails[row.Email]; exists && row.Email != "" {
		row.ValidationStatus = domain.RowSkip
		row.ErrorMessage = "account already exists, entry skipped"
	}

	// Rule 2: department required.
	if strings.TrimSpace(row.Department) == "" {
		markInvalid(row, "department required")
		return
	}

	// Rule 3: public holiday required.
	if strings.TrimSpace(row.PublicHoliday) == "" {
		markInvalid(row, "public holiday required")
		return
	}

	// Rule 4: allowance completeness.
	if len(row.Allowances) != len(ref.AllowanceTypes) {
		markInvalid(row, "allowances required")
		return
	}

	// Rule 5: allowance correctness, three sub-checks aggregated into one
	// combined message.
	if msg := checkAllowances(row, ref.AllowanceTypes); msg != "" {
		markInvalid(row, msg)
		return
	}

	// Rule 6: department name resolution, stopping at the first unresolved
	// name.
	departmentIDs, unresolved := resolveDepartments(row.Department, ref.Departments)
	if unresolved != "" {
		markInvalid(row, "department does not exist: "+unresolved)
		return
	}
	row.ResolvedDepartmentIDs = departmentIDs

	// Rule 7: public holiday resolution.
	holidayID := resolveHoliday(row.PublicHoliday, ref.PublicHolidays)
	if holidayID == nil {
		markInvalid(row, "public holiday does not exist")
		return
	}
	row.ResolvedHolidayID = holidayID

	// Rule 8: email format, only when present.
	if row.Email != "" && !emailPattern.MatchString(row.Email) {
		markInvalid(row, "email invalid")
		return
	}

	// Rule 9: employment start date, only when present.
	if row.EmploymentStartDate != "" {
		parsed, ok := parseStartDate(row.EmploymentStartDate)
		if !ok {
			markInvalid(row, "date invalid")
			return
		}
		row.ResolvedStartDate = &parsed
	}

	// Rule 10: account-enabled label normalization.
	switch strings.TrimSpace(row.AccountEnabled) {
	case strings.TrimSpace(policy.ActiveLabel):
		row.ResolvedStatus = memberdomain.StatusActive
	case strings.TrimSpace(policy.InactiveLabel):
		row.ResolvedStatus = memberdomain.StatusInactive
	default:
		markInvalid(row, "value invalid")
		return
	}

	if row.ValidationStatus != domain.RowSkip {
		row.ValidationStatus = domain.RowValid
	}
}

func markInvalid(row *domain.ImportRow, message string) {
	row.ValidationStatus = domain.RowInvalid
	row.ErrorMessage = message
}

// checkAllowances aggregates the three independent sub-checks: every
// allowance id must exist in the reference list, and neither year value may
// be null for hour-unit or day-unit types.
func checkAllowances(row *domain.ImportRow, types []allowancedomain.AllowanceType) string {
	byID := make(map[string]allowancedomain.AllowanceType, len(types))
	for _, t := range types {
		byID[t.ID.String()] = t
	}

	var fragments []string

	for _, allowance := range row.Allowances {
		if _, ok := byID[allowance.TypeID]; !ok {
			fragments = append(fragments, fmt.Sprintf("allowance type unknown: %s", allowance.Name))
			break
		}
	}

	for _, allowance := range row.Allowances {
		t, ok := byID[allowance.TypeID]
		if !ok || !t.IsHours() {
			continue
		}
		if allowance.CurrentYear == nil || allowance.NextYear == nil {
			fragments = append(fragments, fmt.Sprintf("hour allowance incomplete: %s", allowance.Name))
			break
		}
	}

	for _, allowance := range row.Allowances {
		t, ok := byID[allowance.TypeID]
		if !ok || t.IsHours() {
			continue
		}
		if allowance.CurrentYear == nil || allowance.NextYear == nil {
			fragments = append(fragments, fmt.Sprintf("day allowance incomplete: %s", allowance.Name))
			break
		}
	}

	return strings.Join(fragments, "; ")
}

// resolveDepartments splits the raw field on ";", trims each name, and
// resolves by exact match. Returns the first unresolved name, if any.
func resolveDepartments(raw string, departments []departmentdomain.Department) ([]snowflake.ID, string) {
	byName := make(map[string]snowflake.ID, len(departments))
	for _, d := range departments {
		byName[strings.TrimSpace(d.Name)] = d.ID
	}

	var ids []snowflake.ID
	for _, part := range strings.Split(raw, ";") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		id, ok := byName[name]
		if !ok {
			return nil, name
		}
		ids = append(ids, id)
	}
	return ids, ""
}

func resolveHoliday(raw string, holidays []holidaydomain.PublicHoliday) *snowflake.ID {
	name := strings.TrimSpace(raw)
	for _, h := range holidays {
		if strings.TrimSpace(h.Name) == name {
			id := h.ID
			return &id
		}
	}
	return nil
}

func parseStartDate(raw string) (time.Time, bool) {
	for _, layout := range startDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
