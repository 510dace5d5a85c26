// Package domain contains the in-memory row model for bulk member import.
// Import state lives only inside a session; nothing here is persisted.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
)

// ValidationStatus is a row's terminal classification after validation.
type ValidationStatus string

const (
	RowPending ValidationStatus = "pending"
	RowValid   ValidationStatus = "valid"
	RowInvalid ValidationStatus = "invalid"
	RowSkip    ValidationStatus = "skip"
)

// PreAllowance accumulates decoded allowance values for one allowance type.
// TypeID is the matched allowance-type id, or the decoded type name itself
// when no reference type matches. Year values stay nil until decoded.
type PreAllowance struct {
	TypeID      string   `json:"id"`
	Name        string   `json:"name"`
	CurrentYear *float64 `json:"current_year"`
	NextYear    *float64 `json:"next_year"`
}

// ImportRow is one parsed spreadsheet row for a prospective member account.
// Raw fields hold the cell text as typed; the resolved fields are populated
// by validation and consumed by dispatch.
type ImportRow struct {
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	Department          string         `json:"department"`
	PublicHoliday       string         `json:"public_holiday"`
	EmploymentStartDate string         `json:"employment_start_date"`
	CustomID            string         `json:"custom_id"`
	AccountEnabled      string         `json:"account_enabled"`
	Allowances          []PreAllowance `json:"default_allowances"`

	ValidationStatus ValidationStatus `json:"validation_status"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	Invited          bool             `json:"invited"`

	ResolvedDepartmentIDs []snowflake.ID      `json:"member_department_ids,omitempty"`
	ResolvedHolidayID     *snowflake.ID       `json:"public_holiday_id,omitempty"`
	ResolvedStatus        memberdomain.Status `json:"resolved_status,omitempty"`
	ResolvedStartDate     *time.Time          `json:"resolved_start_date,omitempty"`
}

// FindAllowance returns the row's PreAllowance for the given type id.
func (r *ImportRow) FindAllowance(typeID string) *PreAllowance {
	for i := range r.Allowances {
		if r.Allowances[i].TypeID == typeID {
			return &r.Allowances[i]
		}
	}
	return nil
}
