package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/api"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/client"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/messaging"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/clock"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"go.uber.org/fx"
)

const idempotencySweepInterval = time.Hour

// OrderModule wires the saga orchestrator: HTTP gateways to the inventory and
// payment services, the order store, the outbox plus its relay, and the
// idempotency table.
var OrderModule = fx.Module("order",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			func(cfg config.Config) *client.InventoryClient {
				return client.NewInventoryClient(cfg.Upstreams)
			},
			fx.As(new(usecase.InventoryGateway)),
		),
		fx.Annotate(
			func(cfg config.Config) *client.PaymentClient {
				return client.NewPaymentClient(cfg.Upstreams)
			},
			fx.As(new(usecase.PaymentGateway)),
		),
		postgres.NewOrderRepository,
		postgres.NewOutboxRepository,
		postgres.NewIdempotencyRepository,
		func(r *postgres.OrderRepository) usecase.OrderRepository { return r },
		func(r *postgres.OutboxRepository) usecase.OutboxRepository { return r },
		func(r *postgres.IdempotencyRepository) usecase.IdempotencyRepository { return r },
		NewCheckoutUseCase,
		api.NewCheckoutHandler,
		fx.Annotate(
			func(cfg config.Config) *messaging.ShippingPublisher {
				return messaging.NewShippingPublisher(cfg.Kafka)
			},
			fx.As(new(messaging.Publisher)),
		),
		NewOutboxRelay,
	),
	fx.Invoke(
		handler.NewOrderRouter,
		startRelay,
		startIdempotencySweeper,
	),
)

func NewCheckoutUseCase(
	inventoryGW usecase.InventoryGateway,
	paymentGW usecase.PaymentGateway,
	orderRepo usecase.OrderRepository,
	outboxRepo usecase.OutboxRepository,
	idempotencyRepo usecase.IdempotencyRepository,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) usecase.CheckoutUseCase {
	return usecase.NewCheckoutUseCase(
		inventoryGW,
		paymentGW,
		orderRepo,
		outboxRepo,
		idempotencyRepo,
		cfg.Kafka.ShippingTopic,
		clk,
		logger,
	)
}

func NewOutboxRelay(
	outbox *postgres.OutboxRepository,
	publisher messaging.Publisher,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) *messaging.OutboxRelay {
	return messaging.NewOutboxRelay(outbox, publisher, clk, cfg.Kafka.RelayInterval, logger)
}

func startRelay(lc fx.Lifecycle, relay *messaging.OutboxRelay) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go relay.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

// startIdempotencySweeper periodically drops idempotency keys past their TTL
// so the table does not grow without bound.
func startIdempotencySweeper(
	lc fx.Lifecycle,
	repo *postgres.IdempotencyRepository,
	clk clock.Clock,
	logger *slog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				ticker := time.NewTicker(idempotencySweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						deleted, err := repo.DeleteExpired(ctx, clk.Now())
						if err != nil {
							logger.Error("idempotency key sweep failed", "error", err.Error())
							continue
						}
						if deleted > 0 {
							logger.Info("expired idempotency keys removed", "count", deleted)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
