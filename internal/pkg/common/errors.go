package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// RejectionReason 請求裁決的拒絕原因代碼
// 這是預期中的業務結果，不是系統故障
type RejectionReason string

const (
	ReasonInsufficientIngredients RejectionReason = "INSUFFICIENT_INGREDIENT_COUNT"
	ReasonNoCoreCategory          RejectionReason = "NO_CORE_CATEGORY"
	ReasonLikedNotAvailable       RejectionReason = "LIKED_NOT_AVAILABLE"
	ReasonExcludedNotAvailable    RejectionReason = "EXCLUDED_NOT_AVAILABLE"
	ReasonConflictingPreferences  RejectionReason = "CONFLICTING_PREFERENCES"
)

// RejectionError 表示驗證拒絕，帶有固定的原因代碼
type RejectionError struct {
	Reason  RejectionReason
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// NewRejection 創建驗證拒絕
func NewRejection(reason RejectionReason, format string, args ...interface{}) error {
	return &RejectionError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsRejection 檢查錯誤鏈中是否為驗證拒絕
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413
	ErrCodeRequestRejected = "REQUEST_REJECTED"  // 422
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeGenerationFailed   = "GENERATION_FAILED"   // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeStoreUnavailable   = "STORE_UNAVAILABLE"   // 503
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)

	// 業務錯誤
	ErrCacheFull     = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "cache is disabled", http.StatusServiceUnavailable, nil)

	// 生成失敗：提供者不可達、回應結構無效、或所有候選食譜被過濾
	ErrGenerationFailed = NewError(ErrCodeGenerationFailed, "recipe generation failed", http.StatusBadGateway, nil)
	// 儲存失敗：偏好讀寫失敗，不嘗試部分寫入
	ErrStoreUnavailable = NewError(ErrCodeStoreUnavailable, "preference store unavailable", http.StatusServiceUnavailable, nil)
)
