package handlers

import (
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"

	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/middleware"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// rateLimiter may be nil to disable rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	r.GET("/health", getHealth)

	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	chain := []gin.HandlerFunc{}
	if rateLimiter != nil {
		chain = append(chain, middleware.RateLimit(rateLimiter))
	}
	chain = append(chain, middleware.AuthMiddleware(cfg.JWTSecret))

	v1 := r.Group("/api/v1", chain...)
	v1.GET("", getHome)

	RegisterAccountRoutes(v1, services.Account, services.Balance)
	RegisterInvoiceRoutes(v1, services.Invoice, services.Posting)
	RegisterCustomerRoutes(v1, services.Customer)
}
