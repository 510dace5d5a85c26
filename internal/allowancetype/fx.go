package allowancetype

import (
	"github.com/leavehub/leavehub/internal/allowancetype/repository"
	"github.com/leavehub/leavehub/internal/allowancetype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("allowancetype.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
