package service

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"xhs_feishu_ops_v1/internal/config"
	"xhs_feishu_ops_v1/pkg/apperr"
	"xhs_feishu_ops_v1/pkg/utils"
)

// ==================== 统一数据结构 ====================

// NoteDetail 统一抓取结果
type NoteDetail struct {
	Title  string   `json:"title"`
	Text   string   `json:"text"`
	Cover  string   `json:"cover"`
	Images []string `json:"images"`
}

// ==================== 服务 ====================

// ScrapeService 笔记详情抓取适配器 (第三方抓取接口)
type ScrapeService struct {
	cfg    *config.ScraperConfig
	client *resty.Client
}

// NewScrapeService 创建抓取服务
func NewScrapeService(cfg *config.ScraperConfig) *ScrapeService {
	return &ScrapeService{
		cfg:    cfg,
		client: utils.NewAPIClient(cfg.BaseURL, 30*time.Second),
	}
}

// scrapeResp 第三方抓取接口原始响应
type scrapeResp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Title  string   `json:"title"`
		Desc   string   `json:"desc"`
		Cover  string   `json:"cover"`
		Images []string `json:"images"`
	} `json:"data"`
}

// ==================== 抓取 ====================

// FetchNoteDetail 按笔记链接抓取详情并归一化
func (s *ScrapeService) FetchNoteDetail(ctx context.Context, noteURL string) (*NoteDetail, error) {
	if noteURL == "" {
		return nil, apperr.Validation("笔记链接不能为空")
	}
	if s.cfg.APIKey == "" {
		return nil, apperr.Validation("抓取接口 api_key 未配置")
	}

	var result scrapeResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", s.cfg.APIKey).
		SetQueryParam("url", noteURL).
		SetResult(&result).
		Get("/api/v1/note/detail")
	if err != nil {
		return nil, errors.Wrap(err, "抓取请求失败")
	}

	if resp.StatusCode() != 200 {
		return nil, apperr.Remote(resp.StatusCode(), "抓取接口 HTTP 错误: "+resp.Status())
	}
	if result.Code != 0 {
		return nil, apperr.Remote(result.Code, result.Msg)
	}

	return &NoteDetail{
		Title:  result.Data.Title,
		Text:   result.Data.Desc,
		Cover:  result.Data.Cover,
		Images: result.Data.Images,
	}, nil
}
