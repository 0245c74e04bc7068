// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/internal/api/handlers"
	"github.com/andresuchdata/stockcast/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	InventoryService      handlers.InventoryService
	RecommendationService handlers.RecommendationService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TenantHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api/v1", middleware.RequireTenant())

	if services != nil {
		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/forecast/:productId", inventoryHandler.GetForecast)
				inventoryGroup.GET("/stockout-risks", inventoryHandler.GetStockoutRisks)
				inventoryGroup.GET("/reorder-recommendations", inventoryHandler.GetReorderRecommendations)
				inventoryGroup.GET("/health", inventoryHandler.GetHealth)
				inventoryGroup.DELETE("/health/cache", inventoryHandler.InvalidateHealth)
				inventoryGroup.GET("/dashboard", inventoryHandler.GetDashboard)
			}
		}

		if services.RecommendationService != nil {
			recommendationHandler := handlers.NewRecommendationHandler(services.RecommendationService)
			recommendationGroup := apiGroup.Group("/recommendations")
			{
				recommendationGroup.POST("", recommendationHandler.GetBundle)
				recommendationGroup.GET("/popular", recommendationHandler.GetPopular)
				recommendationGroup.GET("/new-arrivals", recommendationHandler.GetNewArrivals)
				recommendationGroup.POST("/cart", recommendationHandler.GetCart)
				recommendationGroup.GET("/customers/:customerId", recommendationHandler.GetPersonalized)
				recommendationGroup.DELETE("/cache", recommendationHandler.InvalidateCache)

				productGroup := recommendationGroup.Group("/products/:productId")
				{
					productGroup.GET("/frequently-bought-together", recommendationHandler.GetFrequentlyBoughtTogether)
					productGroup.GET("/similar", recommendationHandler.GetSimilar)
				}
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
