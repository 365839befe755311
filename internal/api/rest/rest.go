package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/megayours/megadata-studio/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Session endpoints (reads are open, auth flows mutate state)
		v1.GET("/session", handler.GetSession)
		v1.POST("/session/login", middleware.Auth(authCfg), handler.Login)
		v1.POST("/session/connect", middleware.Auth(authCfg), handler.ConnectWallet)
		v1.POST("/session/logout", middleware.Auth(authCfg), handler.Logout)

		// Account link endpoints
		v1.GET("/links", handler.ListLinks)
		v1.POST("/links", middleware.Auth(authCfg), handler.CreateLink)
		v1.DELETE("/links/:account", middleware.Auth(authCfg), handler.DeleteLink)

		// Collection endpoints
		v1.GET("/collections", handler.ListCollections)
		v1.POST("/collections", middleware.Auth(authCfg), handler.CreateCollection)
		v1.GET("/collections/:id", handler.GetCollection)
		v1.DELETE("/collections/:id", middleware.Auth(authCfg), handler.DeleteCollection)

		// Item endpoints
		v1.PUT("/collections/:id/items/:tokenId", middleware.Auth(authCfg), handler.SaveItem)
		v1.DELETE("/collections/:id/items/:tokenId", middleware.Auth(authCfg), handler.DeleteItem)

		// Publish endpoint
		v1.POST("/collections/:id/publish", middleware.Auth(authCfg), handler.PublishCollection)

		// Store backup endpoints
		v1.GET("/store/export", handler.ExportStore)
		v1.POST("/store/import", middleware.Auth(authCfg), handler.ImportStore)

		// Asset group endpoints
		v1.GET("/asset-groups", handler.ListAssetGroups)
		v1.POST("/asset-groups", middleware.Auth(authCfg), handler.SaveAssetGroup)
		v1.GET("/asset-groups/:id/accounts", handler.EligibleAccounts)

		// Contract endpoints
		v1.GET("/contracts", handler.ListContracts)
		v1.POST("/contracts", middleware.Auth(authCfg), handler.RegisterContract)

		// Module listing and schema validation
		v1.GET("/modules", handler.ListModules)
		v1.POST("/modules/:name/validate", handler.ValidateModule)
	}
}
