package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RW04/recipe-service/internal/pkg/common"
)

// Deduplicator 請求去重器：同一 POST 請求體在時間窗內只接受一次
// 生命週期由呼叫方持有，關閉時停止背景清理
type Deduplicator struct {
	mu       sync.RWMutex
	requests map[string]time.Time
	window   time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewDeduplicator 創建請求去重器並啟動定期清理
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = 1 * time.Second
	}
	d := &Deduplicator{
		requests: make(map[string]time.Time),
		window:   window,
		done:     make(chan struct{}),
	}

	go d.startCleanup()

	return d
}

// startCleanup 定期清理過期指紋，直到 Close 被呼叫
func (d *Deduplicator) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			d.mu.Lock()
			for k, t := range d.requests {
				if now.Sub(t) > 10*d.window {
					delete(d.requests, k)
				}
			}
			d.mu.Unlock()
		case <-d.done:
			return
		}
	}
}

// Close 停止背景清理，可安全重複呼叫
func (d *Deduplicator) Close() error {
	if d == nil {
		return nil
	}
	d.once.Do(func() {
		close(d.done)
	})
	return nil
}

// Middleware 返回去重中間件
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體供後續處理器讀取
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		// 檢查是否是重複請求
		now := time.Now()
		d.mu.RLock()
		if lastTime, exists := d.requests[fingerprint]; exists {
			if now.Sub(lastTime) <= d.window {
				d.mu.RUnlock()
				common.LogWarn("重複請求被攔截",
					zap.String("path", c.Request.URL.Path),
					zap.String("ip", c.ClientIP()),
				)
				c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
					Code:    common.ErrCodeTooManyRequests,
					Message: "duplicate request",
				})
				return
			}
		}
		d.mu.RUnlock()

		// 記錄請求
		d.mu.Lock()
		d.requests[fingerprint] = now
		d.mu.Unlock()

		c.Next()
	}
}
