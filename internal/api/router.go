package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	healthHandler "github.com/RW04/recipe-service/internal/api/handlers/health"
	preferenceHandler "github.com/RW04/recipe-service/internal/api/handlers/preference"
	recipeHandler "github.com/RW04/recipe-service/internal/api/handlers/recipe"
	"github.com/RW04/recipe-service/internal/api/middleware"
	"github.com/RW04/recipe-service/internal/core/ai/cache"
	"github.com/RW04/recipe-service/internal/core/ai/openrouter"
	"github.com/RW04/recipe-service/internal/core/ai/service"
	"github.com/RW04/recipe-service/internal/core/ingredient"
	recipeService "github.com/RW04/recipe-service/internal/core/recipe"
	"github.com/RW04/recipe-service/internal/infrastructure/config"
	"github.com/RW04/recipe-service/internal/infrastructure/store"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager, dedup *middleware.Deduplicator, prefStore store.PreferenceStore) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求去重與速率限制
	router.Use(dedup.Middleware())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 載入食材參考資料表
	catalog, err := ingredient.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		common.LogError("Failed to load ingredient catalog", zap.Error(err))
		return nil, fmt.Errorf("failed to load ingredient catalog: %w", err)
	}

	// 初始化 AI 服務
	prov := openrouter.NewClient(cfg)
	aiService, err := service.NewService(cfg, prov, cacheManager)
	if err != nil || aiService == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	// 初始化食材解析與裁決服務
	resolver := ingredient.NewResolver(aiService, cacheManager)
	evaluator := recipeService.NewEvaluator(catalog, resolver)

	// 初始化食譜服務
	recipeSvc := recipeService.NewService(evaluator, aiService, prefStore)
	if recipeSvc == nil {
		common.LogError("Failed to initialize recipe service: service returned nil",
			zap.Bool("ai_service_initialized", aiService != nil),
			zap.Bool("cache_manager_initialized", cacheManager != nil),
			zap.String("environment", cfg.App.Env),
		)
		return nil, fmt.Errorf("failed to initialize recipe service: service returned nil")
	}

	common.LogInfo("Recipe service initialized successfully",
		zap.Int("catalog_entries", catalog.Len()),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	healthInstance := healthHandler.NewHandler(cfg, catalog, prefStore)
	router.GET("/health", healthInstance.HealthCheck)
	router.GET("/ready", healthInstance.ReadinessCheck)
	router.GET("/live", healthInstance.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeInstance := recipeHandler.NewHandler(recipeSvc)
		preferenceInstance := preferenceHandler.NewHandler(prefStore)

		// 食譜生成
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/generate", recipeInstance.HandleGenerate)
		}

		// 偏好紀錄
		preferenceGroup := api.Group("/preference")
		{
			preferenceGroup.POST("", preferenceInstance.HandleSave)
			preferenceGroup.GET("/:user_id", preferenceInstance.HandleGet)
			preferenceGroup.DELETE("/:user_id", preferenceInstance.HandleDelete)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("catalog_entries", catalog.Len()),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
