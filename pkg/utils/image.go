package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// downloadClient 下载专用客户端，图床偶尔较慢，给足超时
var downloadClient = &http.Client{Timeout: 30 * time.Second}

// DownloadImage 下载网络图片并返回字节切片
// 只对网络层错误重试，HTTP 4xx 直接失败
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	var data []byte

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			// 部分图床校验 Referer/UA，带标准 UA 即可
			req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ops-backend/1.0)")

			resp, err := downloadClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				err = fmt.Errorf("download failed with status: %d", resp.StatusCode)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			data, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return data, nil
}
