package preference

import (
	"errors"
	"net/http"

	"github.com/RW04/recipe-service/internal/infrastructure/store"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SaveRequest 偏好保存請求
type SaveRequest struct {
	UserID               string   `json:"user_id" binding:"required"`
	AvailableIngredients []string `json:"available_ingredients"`
	LikedIngredients     []string `json:"liked_ingredients"`
	ExcludedIngredients  []string `json:"excluded_ingredients"`
}

// Handler 偏好處理程序
type Handler struct {
	prefStore store.PreferenceStore
}

// NewHandler 創建偏好處理程序
func NewHandler(prefStore store.PreferenceStore) *Handler {
	return &Handler{prefStore: prefStore}
}

// HandleSave 保存偏好紀錄（完整取代舊紀錄）
func (h *Handler) HandleSave(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("偏好請求格式無效", zap.Error(err))
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	record := &common.PreferenceRecord{
		UserID:               req.UserID,
		AvailableIngredients: req.AvailableIngredients,
		LikedIngredients:     req.LikedIngredients,
		ExcludedIngredients:  req.ExcludedIngredients,
	}

	if err := h.prefStore.Put(c.Request.Context(), req.UserID, record); err != nil {
		common.LogError("偏好寫入失敗",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrCodeStoreUnavailable,
			Message: "failed to save preference",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences saved successfully"})
}

// HandleGet 讀取偏好紀錄
func (h *Handler) HandleGet(c *gin.Context) {
	userID := c.Param("user_id")

	record, err := h.prefStore.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Code:    common.ErrCodeNotFound,
				Message: "Preferences not found",
			})
			return
		}
		common.LogError("偏好讀取失敗",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrCodeStoreUnavailable,
			Message: "failed to read preference",
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// HandleDelete 刪除偏好紀錄
func (h *Handler) HandleDelete(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.prefStore.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Code:    common.ErrCodeNotFound,
				Message: "No preference found to delete",
			})
			return
		}
		common.LogError("偏好刪除失敗",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrCodeStoreUnavailable,
			Message: "failed to delete preference",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preference deleted successfully"})
}
