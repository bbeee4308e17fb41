package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/api"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/handler/middleware"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Each service mounts its own router; the middleware chain is identical
// across services so their logs and error bodies look the same.

func NewInventoryRouter(engine *gin.Engine, cfg config.Config, inventoryHandler *api.InventoryHandler) {
	setupMiddleware(engine, cfg)
	engine.GET("/health", healthCheck)

	items := engine.Group("/inventory-management/inventory/items")
	{
		addRoutes(items, []route{
			{Method: http.MethodGet, Path: "", Handler: inventoryHandler.ListItems},
			{Method: http.MethodGet, Path: "/search", Handler: inventoryHandler.SearchItems},
			{Method: http.MethodGet, Path: "/:id", Handler: inventoryHandler.GetItem},
			{Method: http.MethodPost, Path: "", Handler: inventoryHandler.Reserve},
			{Method: http.MethodPost, Path: "/release", Handler: inventoryHandler.Release},
		})
	}
}

func NewOrderRouter(engine *gin.Engine, cfg config.Config, checkoutHandler *api.CheckoutHandler) {
	setupMiddleware(engine, cfg)
	engine.GET("/health", healthCheck)

	orders := engine.Group("/order-processing/order")
	{
		addRoutes(orders, []route{
			{Method: http.MethodPost, Path: "", Handler: checkoutHandler.Checkout},
			{Method: http.MethodGet, Path: "/:confirmationNumber", Handler: checkoutHandler.GetOrder},
		})
	}
}

func NewPaymentRouter(engine *gin.Engine, cfg config.Config, paymentHandler *api.PaymentHandler) {
	setupMiddleware(engine, cfg)
	engine.GET("/health", healthCheck)

	payments := engine.Group("/payment")
	{
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "", Handler: paymentHandler.Charge},
			{Method: http.MethodPost, Path: "/:confirmationNumber/reversal", Handler: paymentHandler.FlagReversal},
		})
	}
}

func NewShippingRouter(engine *gin.Engine, cfg config.Config, shippingHandler *api.ShippingHandler) {
	setupMiddleware(engine, cfg)
	engine.GET("/health", healthCheck)

	shipments := engine.Group("/shipping")
	{
		addRoutes(shipments, []route{
			{Method: http.MethodGet, Path: "/:confirmationNumber", Handler: shippingHandler.GetRecord},
		})
	}
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
