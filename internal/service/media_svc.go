package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"xhs_feishu_ops_v1/internal/config"
	"xhs_feishu_ops_v1/pkg/feishu"
	"xhs_feishu_ops_v1/pkg/utils"
)

// ==================== 服务 ====================

// MediaService 图片中转适配器
// 把外链图片搬运进多维表格的附件存储，换取 file_token
type MediaService struct {
	cfg    *config.FeishuConfig
	tokens TokenProvider
	client *resty.Client
}

// NewMediaService 创建图片中转服务
func NewMediaService(cfg *config.FeishuConfig, tokens TokenProvider) *MediaService {
	return &MediaService{
		cfg:    cfg,
		tokens: tokens,
		// 上传大图较慢，单独放宽超时
		client: utils.NewAPIClient(cfg.BaseURL, 60*time.Second),
	}
}

// ==================== 图片中转 ====================

// TransferImage 下载源图并上传为多维表格附件，返回 file_token
func (s *MediaService) TransferImage(ctx context.Context, srcURL string) (string, error) {
	data, err := utils.DownloadImage(ctx, srcURL)
	if err != nil {
		return "", errors.Wrapf(err, "下载图片失败: %s", srcURL)
	}

	token, err := s.tokens.GetValidAccessToken(ctx)
	if err != nil || token == "" {
		// 附件上传挂在表格节点下，应用 Token 同样可用
		token, err = s.tokens.GetTenantAccessToken(ctx)
		if err != nil {
			return "", err
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetFileReader("file", buildFileName(srcURL), bytes.NewReader(data)).
		SetFormData(map[string]string{
			"file_name":   buildFileName(srcURL),
			"parent_type": "bitable_image",
			"parent_node": s.cfg.AppToken,
			"size":        strconv.Itoa(len(data)),
		}).
		Post(feishu.MediaUploadPath)
	if err != nil {
		return "", err
	}

	raw, err := parseEnvelope(resp)
	if err != nil {
		return "", err
	}

	var upload feishu.UploadData
	if err := json.Unmarshal(raw, &upload); err != nil {
		return "", fmt.Errorf("上传响应解析失败: %v", err)
	}
	return upload.FileToken, nil
}

// TransferImages 批量中转，单张失败记日志降级，不中断整组
func (s *MediaService) TransferImages(ctx context.Context, srcURLs []string) []feishu.Attachment {
	var attachments []feishu.Attachment
	for _, src := range srcURLs {
		fileToken, err := s.TransferImage(ctx, src)
		if err != nil {
			logDegradedUpload(src, err)
			continue
		}
		attachments = append(attachments, feishu.Attachment{FileToken: fileToken})
	}
	return attachments
}

// ==================== 内部方法 ====================

func logDegradedUpload(src string, err error) {
	logrus.WithError(err).WithField("src", src).Warn("图片中转失败，该图跳过")
}

// buildFileName 由源 URL 推断扩展名，文件名用 uuid 防冲突
func buildFileName(srcURL string) string {
	ext := path.Ext(srcURL)
	if idx := strings.IndexAny(ext, "?!&"); idx >= 0 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	return uuid.New().String() + ext
}
