package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 批处理冷却限流 ====================

// BatchLimiter 批处理限流器
// 批量提取/装链会连环调用第三方接口，按操作维度加冷却，
// 防止操作员反复点按钮把第三方接口打挂
type BatchLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &BatchLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *BatchLimiter {
	return globalLimiter
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "batch:extract"
// interval: 冷却间隔
func (r *BatchLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 清除指定键的冷却 (测试用)
func (r *BatchLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== 中间件 ====================

// BatchCooldown 批处理冷却中间件
//
// 使用示例:
//
//	router.POST("/api/records/batch_extract",
//	    middleware.BatchCooldown("batch:extract", 10*time.Second),
//	    extractCtl.BatchExtract,
//	)
func BatchCooldown(key string, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := GetLimiter().Check(key, interval)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds()) + 1
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   fmt.Sprintf("操作过于频繁，请 %d 秒后再试", retryAfter),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
