package memberimport

import (
	"github.com/leavehub/leavehub/internal/memberimport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("memberimport.service",
	fx.Provide(service.New),
)
