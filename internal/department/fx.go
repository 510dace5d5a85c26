package department

import (
	"github.com/leavehub/leavehub/internal/department/repository"
	"github.com/leavehub/leavehub/internal/department/service"
	"go.uber.org/fx"
)

var Module = fx.Module("department.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
