package components

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/api"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"

	"go.uber.org/fx"
)

var InventoryModule = fx.Module("inventory",
	fx.Provide(
		fx.Annotate(
			postgres.NewInventoryRepository,
			fx.As(new(usecase.InventoryRepository)),
		),
		usecase.NewInventoryUseCase,
		api.NewInventoryHandler,
	),
	fx.Invoke(handler.NewInventoryRouter),
)
