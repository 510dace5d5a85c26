package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/leavehub/leavehub/internal/config"
	"github.com/leavehub/leavehub/internal/observability/metrics"
	"github.com/leavehub/leavehub/internal/orgcontext"
	"github.com/leavehub/leavehub/internal/subscription/checkout"
	"github.com/leavehub/leavehub/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Registry *checkout.Registry
	Config   config.Config
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	registry *checkout.Registry
	cfg      config.Config
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("subscription.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		registry: p.Registry,
		cfg:      p.Config,
		metrics:  p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context) (domain.SubscriptionView, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.SubscriptionView{}, domain.ErrInvalidOrganization
	}

	sub, err := s.repo.FindByOrg(ctx, s.db, orgID)
	if err != nil {
		return domain.SubscriptionView{}, err
	}
	if sub == nil {
		created, err := s.createFree(ctx, orgID)
		if err != nil {
			return domain.SubscriptionView{}, err
		}
		sub = created
	}

	return domain.SubscriptionView{
		Subscription: *sub,
		Status:       domain.DeriveStatus(*sub, time.Now().UTC()),
	}, nil
}

func (s *Service) Upgrade(ctx context.Context, req domain.UpgradeRequest) (domain.CheckoutSession, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.CheckoutSession{}, domain.ErrInvalidOrganization
	}

	plan, ok := domain.ParsePlan(req.Plan)
	if !ok || plan == domain.PlanFree {
		return domain.CheckoutSession{}, domain.ErrInvalidPlan
	}

	adapter, err := s.registry.Adapter(s.cfg.Checkout.Provider)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	session, err := adapter.CreateSession(ctx, domain.CheckoutRequest{
		OrgID:      orgID,
		Plan:       plan,
		Seats:      req.Seats,
		SuccessURL: s.cfg.Checkout.SuccessURL,
		CancelURL:  s.cfg.Checkout.CancelURL,
	})
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	s.metrics.RecordSubscriptionTransition(ctx, "checkout_started")
	s.log.Info("checkout session created",
		zap.String("provider", session.Provider),
		zap.String("plan", string(plan)),
	)
	return session, nil
}

func (s *Service) createFree(ctx context.Context, orgID snowflake.ID) (*domain.Subscription, error) {
	now := time.Now().UTC()
	sub := domain.Subscription{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Plan:      domain.PlanFree,
		Seats:     1,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &sub); err != nil {
		// Lost a concurrent first-read race; re-read the winner's row.
		if existing, findErr := s.repo.FindByOrg(ctx, s.db, orgID); findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return &sub, nil
}
