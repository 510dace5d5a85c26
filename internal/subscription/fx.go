package subscription

import (
	"github.com/leavehub/leavehub/internal/config"
	"github.com/leavehub/leavehub/internal/subscription/checkout"
	"github.com/leavehub/leavehub/internal/subscription/repository"
	"github.com/leavehub/leavehub/internal/subscription/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(NewCheckoutRegistry),
	fx.Provide(service.New),
)

// NewCheckoutRegistry registers every checkout adapter the configuration can
// resolve. The noop adapter is always available for development.
func NewCheckoutRegistry(cfg config.Config, log *zap.Logger) *checkout.Registry {
	stripeAdapter, err := checkout.NewStripe(checkout.StripeConfig{
		SecretKey:     cfg.Checkout.SecretKey,
		CorePrice:     cfg.Checkout.CorePrice,
		CompletePrice: cfg.Checkout.CompletePrice,
	})
	if err != nil {
		log.Warn("stripe checkout disabled", zap.Error(err))
		return checkout.NewRegistry(checkout.NewNoop())
	}
	return checkout.NewRegistry(checkout.NewNoop(), stripeAdapter)
}
