package bootstrap

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
