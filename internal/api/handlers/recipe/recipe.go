package recipe

import (
	"errors"
	"net/http"

	recipeService "github.com/RW04/recipe-service/internal/core/recipe"
	"github.com/RW04/recipe-service/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateRequest 食譜生成請求
type GenerateRequest struct {
	UserID               string   `json:"user_id" binding:"required"`
	AvailableIngredients []string `json:"available_ingredients" binding:"required"`
	LikedIngredients     []string `json:"liked_ingredients,omitempty"`
	ExcludedIngredients  []string `json:"excluded_ingredients,omitempty"`
}

// GenerateResponse 食譜生成回應
type GenerateResponse struct {
	Recipes []common.Recipe `json:"recipes"`
}

// Handler 食譜處理程序
type Handler struct {
	recipeService *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeService *recipeService.Service) *Handler {
	return &Handler{
		recipeService: recipeService,
	}
}

// HandleGenerate 處理食譜生成請求
// 結果映射：驗證拒絕 422（帶原因代碼）、生成失敗 502、儲存失敗 503
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	recipes, err := h.recipeService.Generate(c.Request.Context(), &common.RecipeRequest{
		UserID:               req.UserID,
		AvailableIngredients: req.AvailableIngredients,
		LikedIngredients:     req.LikedIngredients,
		ExcludedIngredients:  req.ExcludedIngredients,
	})
	if err != nil {
		h.writeError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{Recipes: recipes})
}

// writeError 將管線錯誤映射為呼叫端可見的結果
func (h *Handler) writeError(c *gin.Context, requestID string, err error) {
	// 驗證拒絕是預期中的業務結果，帶固定原因代碼回報
	if rejection, ok := common.AsRejection(err); ok {
		common.LogInfo("請求被驗證拒絕",
			zap.String("request_id", requestID),
			zap.String("reason", string(rejection.Reason)),
		)
		c.JSON(http.StatusUnprocessableEntity, common.ErrorResponse{
			Code:    string(rejection.Reason),
			Message: rejection.Message,
		})
		return
	}

	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		common.LogError("食譜生成請求失敗",
			zap.String("request_id", requestID),
			zap.String("code", customErr.Code),
			zap.Error(err),
		)
		c.JSON(customErr.Status, common.ErrorResponse{
			Code:    customErr.Code,
			Message: customErr.Message,
		})
		return
	}

	common.LogError("食譜生成請求失敗",
		zap.String("request_id", requestID),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "internal server error",
	})
}
