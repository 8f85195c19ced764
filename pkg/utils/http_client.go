package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewFeedClient 创建拉取价目表用的 Resty 客户端
// 它是全系统统一的出站请求入口，超时由配置决定（供应商接口可能比较慢）
func NewFeedClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("User-Agent", "Retail-Procurement/1.0")
	return client
}
