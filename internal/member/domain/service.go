package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/pkg/db/pagination"
)

type CreateMemberRequest struct {
	Name                string
	Email               string
	CustomID            string
	Status              Status
	DepartmentIDs       []snowflake.ID
	PublicHolidayID     *snowflake.ID
	EmploymentStartDate *time.Time
	Allowances          []AllowanceGrant
}

// AllowanceGrant is an allowance balance to seed for a newly created member.
type AllowanceGrant struct {
	AllowanceTypeID snowflake.ID
	CurrentYear     float64
	NextYear        float64
}

type ListMembersRequest struct {
	Status    string
	PageToken string
	PageSize  int32
}

type ListMembersResponse struct {
	pagination.PageInfo
	Members []Member `json:"members"`
}

// BulkActionRequest carries the target member ids of a bulk operation.
type BulkActionRequest struct {
	MemberIDs []string `json:"member_ids"`
}

// BulkActionResult reports how many members a bulk operation touched.
type BulkActionResult struct {
	Affected int64 `json:"affected"`
}

type Service interface {
	Create(ctx context.Context, req CreateMemberRequest) (Member, error)
	List(ctx context.Context, req ListMembersRequest) (ListMembersResponse, error)
	// ExistingEmails returns the lower-cased emails of every account in the
	// organization, used by the import validator's duplicate check.
	ExistingEmails(ctx context.Context) (map[string]struct{}, error)
	BulkArchive(ctx context.Context, req BulkActionRequest) (BulkActionResult, error)
	BulkUnarchive(ctx context.Context, req BulkActionRequest) (BulkActionResult, error)
	BulkActivate(ctx context.Context, req BulkActionRequest) (BulkActionResult, error)
	BulkDelete(ctx context.Context, req BulkActionRequest) (BulkActionResult, error)
	// InvalidateListCache drops cached member listings for the org so
	// dependent views refetch current state.
	InvalidateListCache(ctx context.Context)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_member_name")
	ErrInvalidStatus       = errors.New("invalid_member_status")
	ErrInvalidMemberIDs    = errors.New("invalid_member_ids")
	ErrNotFound            = errors.New("member_not_found")
)
