package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/RW04/recipe-service/internal/core/ingredient"
	"github.com/RW04/recipe-service/internal/infrastructure/config"
	"github.com/RW04/recipe-service/internal/infrastructure/store"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   map[string]interface{} `json:"catalog"`
}

// Handler 健康檢查處理程序
type Handler struct {
	config    *config.Config
	catalog   *ingredient.Catalog
	prefStore store.PreferenceStore
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, catalog *ingredient.Catalog, prefStore store.PreferenceStore) *Handler {
	return &Handler{
		config:    cfg,
		catalog:   catalog,
		prefStore: prefStore,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: map[string]interface{}{
			"entries": h.catalog.Len(),
		},
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：偏好儲存庫可達且資料表已載入
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.prefStore.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "preference store unreachable",
		})
		return
	}
	if h.catalog.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "ingredient catalog not loaded",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
