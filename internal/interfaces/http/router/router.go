package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// Dependencies holds everything the router needs to wire up routes
type Dependencies struct {
	Finance *handler.FinanceHandler
	System  *handler.SystemHandler
	Logger  *zap.Logger
	CORS    middleware.CORSConfig
	Tenant  middleware.TenantMiddlewareConfig
}

// New builds the gin engine with the standard middleware chain and all routes
func New(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(logger.Recovery(deps.Logger))
	r.Use(middleware.CORSWithConfig(deps.CORS))
	r.Use(middleware.Secure())

	if deps.System != nil {
		r.GET("/health", deps.System.Health)
		r.GET("/ready", deps.System.Ready)
	}

	api := r.Group("/api/v1")
	api.Use(middleware.TenantMiddlewareWithConfig(deps.Tenant))
	{
		finance := api.Group("/finance")
		{
			finance.GET("/balances", deps.Finance.GetBalances)
			finance.GET("/accounts/standings", deps.Finance.GetAccountStandings)
			finance.GET("/cashflow", deps.Finance.GetCashFlow)
			finance.GET("/summary", deps.Finance.GetSummary)
			finance.GET("/dashboard", deps.Finance.GetDashboard)
		}
	}

	return r
}
