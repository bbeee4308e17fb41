// Package bootstrap assembles the fx graph for each service binary. The four
// services share config and database wiring and differ only in their
// component module.
package bootstrap

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var InventoryModule = fx.Options(
	ConfigModule,
	DBModule,
	components.InventoryModule,
)

var OrderModule = fx.Options(
	ConfigModule,
	DBModule,
	components.OrderModule,
)

var PaymentModule = fx.Options(
	ConfigModule,
	DBModule,
	components.PaymentModule,
)

var ShippingModule = fx.Options(
	ConfigModule,
	DBModule,
	components.ShippingModule,
)
