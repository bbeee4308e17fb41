package components

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/api"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/clock"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			postgres.NewPaymentRepository,
			fx.As(new(usecase.PaymentRepository)),
		),
		usecase.NewPaymentUseCase,
		api.NewPaymentHandler,
	),
	fx.Invoke(handler.NewPaymentRouter),
)
