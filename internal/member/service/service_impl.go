package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/cache"
	"github.com/leavehub/leavehub/internal/member/domain"
	"github.com/leavehub/leavehub/internal/orgcontext"
	"github.com/leavehub/leavehub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const listCacheTTL = 45 * time.Second

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	listCache cache.Cache[snowflake.ID, []domain.Member]
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("member.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		listCache: cache.NewTTLCache[snowflake.ID, []domain.Member](),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMemberRequest) (domain.Member, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Member{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Member{}, domain.ErrInvalidName
	}

	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}
	switch status {
	case domain.StatusActive, domain.StatusInactive:
	default:
		return domain.Member{}, domain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	member := domain.Member{
		ID:                  s.genID.Generate(),
		OrgID:               orgID,
		Name:                name,
		Email:               strings.TrimSpace(req.Email),
		CustomID:            strings.TrimSpace(req.CustomID),
		Status:              status,
		PublicHolidayID:     req.PublicHolidayID,
		EmploymentStartDate: req.EmploymentStartDate,
		Metadata:            datatypes.JSONMap{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}
	if len(req.DepartmentIDs) > 0 {
		if err := s.repo.ReplaceDepartments(ctx, s.db, member.ID, req.DepartmentIDs); err != nil {
			return domain.Member{}, err
		}
	}
	if len(req.Allowances) > 0 {
		allowances := make([]domain.Allowance, 0, len(req.Allowances))
		for _, grant := range req.Allowances {
			allowances = append(allowances, domain.Allowance{
				ID:              s.genID.Generate(),
				OrgID:           orgID,
				MemberID:        member.ID,
				AllowanceTypeID: grant.AllowanceTypeID,
				CurrentYear:     grant.CurrentYear,
				NextYear:        grant.NextYear,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
		if err := s.repo.InsertAllowances(ctx, s.db, allowances); err != nil {
			return domain.Member{}, err
		}
	}

	s.listCache.Delete(orgID)
	return member, nil
}

func (s *Service) List(ctx context.Context, req domain.ListMembersRequest) (domain.ListMembersResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListMembersResponse{}, domain.ErrInvalidOrganization
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	// Only the default first page is cached; filtered and cursored listings
	// always hit the database.
	cacheable := req.Status == "" && req.PageToken == "" && req.PageSize == 0
	if cacheable {
		if cached, ok := s.listCache.Get(orgID); ok {
			return domain.ListMembersResponse{Members: cached}, nil
		}
	}

	items, err := s.repo.List(ctx, s.db, orgID, domain.ListMemberFilter{
		Status: domain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListMembersResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(member *domain.Member) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        member.ID.String(),
			CreatedAt: member.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	members := make([]domain.Member, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		members = append(members, *item)
	}

	if cacheable {
		s.listCache.Set(orgID, members, listCacheTTL)
	}

	resp := domain.ListMembersResponse{Members: members}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) ExistingEmails(ctx context.Context) (map[string]struct{}, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	emails, err := s.repo.ListEmailsByOrg(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		set[email] = struct{}{}
	}
	return set, nil
}

func (s *Service) BulkArchive(ctx context.Context, req domain.BulkActionRequest) (domain.BulkActionResult, error) {
	now := time.Now().UTC()
	return s.bulkStatus(ctx, req, domain.StatusArchived, &now)
}

func (s *Service) BulkUnarchive(ctx context.Context, req domain.BulkActionRequest) (domain.BulkActionResult, error) {
	return s.bulkStatus(ctx, req, domain.StatusInactive, nil)
}

func (s *Service) BulkActivate(ctx context.Context, req domain.BulkActionRequest) (domain.BulkActionResult, error) {
	return s.bulkStatus(ctx, req, domain.StatusActive, nil)
}

func (s *Service) BulkDelete(ctx context.Context, req domain.BulkActionRequest) (domain.BulkActionResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.BulkActionResult{}, domain.ErrInvalidOrganization
	}

	ids, err := parseMemberIDs(req.MemberIDs)
	if err != nil {
		return domain.BulkActionResult{}, err
	}

	affected, err := s.repo.BulkDelete(ctx, s.db, orgID, ids)
	if err != nil {
		return domain.BulkActionResult{}, err
	}

	s.listCache.Delete(orgID)
	s.log.Info("members deleted", zap.Int64("affected", affected))
	return domain.BulkActionResult{Affected: affected}, nil
}

func (s *Service) InvalidateListCache(ctx context.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return
	}
	s.listCache.Delete(orgID)
}

func (s *Service) bulkStatus(ctx context.Context, req domain.BulkActionRequest, status domain.Status, archivedAt *time.Time) (domain.BulkActionResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.BulkActionResult{}, domain.ErrInvalidOrganization
	}

	ids, err := parseMemberIDs(req.MemberIDs)
	if err != nil {
		return domain.BulkActionResult{}, err
	}

	affected, err := s.repo.BulkUpdateStatus(ctx, s.db, orgID, ids, status, archivedAt)
	if err != nil {
		return domain.BulkActionResult{}, err
	}

	s.listCache.Delete(orgID)
	return domain.BulkActionResult{Affected: affected}, nil
}

func parseMemberIDs(raw []string) ([]snowflake.ID, error) {
	if len(raw) == 0 {
		return nil, domain.ErrInvalidMemberIDs
	}
	ids := make([]snowflake.ID, 0, len(raw))
	for _, value := range raw {
		id, err := snowflake.ParseString(strings.TrimSpace(value))
		if err != nil {
			return nil, domain.ErrInvalidMemberIDs
		}
		ids = append(ids, id)
	}
	return ids, nil
}
