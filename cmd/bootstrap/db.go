package bootstrap

import (
	"context"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/db"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"
	"github.com/Jemin-Gandhi/CSE5234-Project/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
	fx.Invoke(applyMigrations),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

func applyMigrations(pool *pgxpool.Pool) error {
	return migrations.Apply(context.Background(), pool)
}
