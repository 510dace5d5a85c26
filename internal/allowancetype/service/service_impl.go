package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/orgcontext"
	"github.com/leavehub/leavehub/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("allowancetype.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAllowanceTypeRequest) (domain.AllowanceType, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.AllowanceType{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.AllowanceType{}, domain.ErrInvalidName
	}

	unit := domain.Unit(strings.ToLower(strings.TrimSpace(req.Unit)))
	if unit != domain.UnitDays && unit != domain.UnitHours {
		return domain.AllowanceType{}, domain.ErrInvalidUnit
	}

	now := time.Now().UTC()
	allowanceType := domain.AllowanceType{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &allowanceType); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.AllowanceType{}, domain.ErrAllowanceTypeExists
		}
		return domain.AllowanceType{}, err
	}

	return allowanceType, nil
}

func (s *Service) List(ctx context.Context) ([]domain.AllowanceType, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.ListByOrg(ctx, s.db, orgID)
}
