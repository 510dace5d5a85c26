package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leavehub/leavehub/internal/allowancetype"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/analytics"
	"github.com/leavehub/leavehub/internal/config"
	"github.com/leavehub/leavehub/internal/department"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	"github.com/leavehub/leavehub/internal/holiday"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
	"github.com/leavehub/leavehub/internal/invitation"
	invitationdomain "github.com/leavehub/leavehub/internal/invitation/domain"
	"github.com/leavehub/leavehub/internal/member"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	"github.com/leavehub/leavehub/internal/memberimport"
	importdomain "github.com/leavehub/leavehub/internal/memberimport/domain"
	"github.com/leavehub/leavehub/internal/observability"
	obsmiddleware "github.com/leavehub/leavehub/internal/observability/logger"
	obstracing "github.com/leavehub/leavehub/internal/observability/tracing"
	"github.com/leavehub/leavehub/internal/organization"
	organizationdomain "github.com/leavehub/leavehub/internal/organization/domain"
	"github.com/leavehub/leavehub/internal/providers/email"
	"github.com/leavehub/leavehub/internal/subscription"
	subscriptiondomain "github.com/leavehub/leavehub/internal/subscription/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	email.Module,
	analytics.Module,
	organization.Module,
	department.Module,
	holiday.Module,
	allowancetype.Module,
	member.Module,
	invitation.Module,
	subscription.Module,
	memberimport.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	organizationSvc organizationdomain.Service
	departmentSvc   departmentdomain.Service
	holidaySvc      holidaydomain.Service
	allowanceSvc    allowancedomain.Service
	memberSvc       memberdomain.Service
	invitationSvc   invitationdomain.Service
	subscriptionSvc subscriptiondomain.Service
	importSvc       importdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	OrganizationSvc organizationdomain.Service
	DepartmentSvc   departmentdomain.Service
	HolidaySvc      holidaydomain.Service
	AllowanceSvc    allowancedomain.Service
	MemberSvc       memberdomain.Service
	InvitationSvc   invitationdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	ImportSvc       importdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		organizationSvc: p.OrganizationSvc,
		departmentSvc:   p.DepartmentSvc,
		holidaySvc:      p.HolidaySvc,
		allowanceSvc:    p.AllowanceSvc,
		memberSvc:       p.MemberSvc,
		invitationSvc:   p.InvitationSvc,
		subscriptionSvc: p.SubscriptionSvc,
		importSvc:       p.ImportSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/organizations", s.CreateOrganization)
	api.POST("/invites/verify", s.VerifyInvite)

	org := api.Group("", OrgRequired())
	{
		// -------- Reference data --------
		org.GET("/departments", s.ListDepartments)
		org.POST("/departments", s.CreateDepartment)
		org.GET("/public-holidays", s.ListPublicHolidays)
		org.POST("/public-holidays", s.CreatePublicHoliday)
		org.GET("/allowance-types", s.ListAllowanceTypes)
		org.POST("/allowance-types", s.CreateAllowanceType)

		// -------- Members --------
		org.GET("/members", s.ListMembers)
		org.POST("/members/bulk/archive", s.BulkArchiveMembers)
		org.POST("/members/bulk/unarchive", s.BulkUnarchiveMembers)
		org.POST("/members/bulk/activate", s.BulkActivateMembers)
		org.POST("/members/bulk/delete", s.BulkDeleteMembers)

		// -------- Invitations --------
		org.POST("/invites", s.InviteMember)

		// -------- Subscription --------
		org.GET("/subscription", s.GetSubscription)
		org.POST("/subscription/upgrade", s.UpgradeSubscription)

		// -------- Bulk import wizard --------
		org.GET("/imports/template", s.DownloadImportTemplate)
		org.POST("/imports", s.UploadImport)
		org.GET("/imports/:id", s.GetImportSession)
		org.POST("/imports/:id/advance", s.AdvanceImportSession)
		org.POST("/imports/:id/dispatch", s.DispatchImportSession)
	}
}

// classifyErrorForLog folds errors into a coarse (type, code) pair for the
// request log line.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if vErr := asValidationErrors(err); vErr != nil {
		code := ""
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	}
	switch {
	case isValidationError(err):
		return "validation_error", validationErrorCode(err)
	case isNotFoundError(err):
		return "not_found", err.Error()
	case isConflictError(err):
		return "conflict", err.Error()
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized", "unauthorized"
	default:
		return "internal_error", err.Error()
	}
}
