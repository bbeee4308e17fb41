package components

import (
	"context"
	"log/slog"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/api"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/messaging"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"go.uber.org/fx"
)

// ShippingModule wires the dispatcher: the consumer group feeding the
// idempotent event handler plus a small read API over the stored records.
var ShippingModule = fx.Module("shipping",
	fx.Provide(
		fx.Annotate(
			postgres.NewShippingRepository,
			fx.As(new(usecase.ShippingRepository)),
		),
		usecase.NewShippingUseCase,
		api.NewShippingHandler,
		NewShippingConsumer,
	),
	fx.Invoke(
		handler.NewShippingRouter,
		startConsumer,
	),
)

func NewShippingConsumer(
	cfg config.Config,
	shippingUseCase usecase.ShippingUseCase,
	logger *slog.Logger,
) *messaging.ShippingConsumer {
	return messaging.NewShippingConsumer(cfg.Kafka, shippingUseCase, logger)
}

func startConsumer(lc fx.Lifecycle, consumer *messaging.ShippingConsumer) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return consumer.Stop()
		},
	})
}
