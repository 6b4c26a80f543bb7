package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewAPIClient 创建统一配置的 Resty 客户端
// 它是全系统出站请求的统一入口 (飞书 / 抓取 / 生成式接口共用配置)
func NewAPIClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "xhs-feishu-ops/1.0")

	return client
}
