package member

import (
	"github.com/leavehub/leavehub/internal/member/repository"
	"github.com/leavehub/leavehub/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
