package holiday

import (
	"github.com/leavehub/leavehub/internal/holiday/repository"
	"github.com/leavehub/leavehub/internal/holiday/service"
	"go.uber.org/fx"
)

var Module = fx.Module("holiday.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
