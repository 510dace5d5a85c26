package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/holiday/domain"
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
		log:   p.Log.Named("holiday.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePublicHolidayRequest) (domain.PublicHoliday, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.PublicHoliday{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.PublicHoliday{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	holiday := domain.PublicHoliday{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        name,
		CountryCode: strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &holiday); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.PublicHoliday{}, domain.ErrHolidayExists
		}
		return domain.PublicHoliday{}, err
	}

	return holiday, nil
}

func (s *Service) List(ctx context.Context) ([]domain.PublicHoliday, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.ListByOrg(ctx, s.db, orgID)
}
