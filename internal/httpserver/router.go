package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"kaaswinkel/internal/auth"
	"kaaswinkel/internal/checkout"
	"kaaswinkel/internal/service/account"
	"kaaswinkel/internal/service/catalog"
)

// Deps bundles the services the handlers depend on.
type Deps struct {
	Accounts    *account.Service
	Catalog     *catalog.Service
	Checkout    *checkout.Orchestrator
	Sessions    *auth.Sessions
	CORSOrigins []string
}

// buildRouter wires the shop routes.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.Use(auth.Middleware(deps.Sessions))
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/password/request", h.requestPasswordReset)
		api.POST("/password/reset", h.resetPassword)

		api.GET("/kaas", h.listProducts)
		api.GET("/kaas/:id", h.getProduct)
		api.GET("/kaas-afbeelding/:id", h.getProductImage)

		api.POST("/checkout/session", h.createCheckoutSession)
		api.POST("/order/confirm", h.confirmOrder)

		acct := api.Group("/account", auth.RequireAuth())
		{
			acct.GET("/profiel", h.profile)
			acct.POST("/update", h.updateProfile)
		}

		admin := api.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
		{
			admin.GET("/kaas", h.adminListProducts)
			admin.POST("/kaas", h.adminCreateProduct)
			admin.PUT("/kaas/:id", h.adminUpdateProduct)
			admin.DELETE("/kaas/:id", h.adminDeleteProduct)
			admin.POST("/kaas/:id/afbeelding", h.adminUploadImage)
		}
	}

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

// requestLogger emits one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
