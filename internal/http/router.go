package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the public and protected route groups. The admin panel is
// a browser SPA on another origin, so CORS is open for the API.
func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", handler.login)
		api.GET("/client/contracts", handler.lookupContracts)
	}

	protected := api.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/me", handler.me)
		protected.GET("/contracts", handler.listContracts)
		protected.POST("/contracts", handler.createContract)
		protected.POST("/contracts/total", handler.previewTotal)
		protected.GET("/contracts/export", handler.exportContractsExcel)
		protected.PUT("/contracts/:id", handler.updateContract)
		protected.DELETE("/contracts/:id", handler.deleteContract)
		protected.POST("/contracts/:id/pay", handler.markPaid)
		protected.GET("/contracts/:id/pdf", handler.exportContractPDF)
	}

	return router
}
