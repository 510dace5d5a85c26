package invitation

import (
	"github.com/leavehub/leavehub/internal/invitation/repository"
	"github.com/leavehub/leavehub/internal/invitation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
