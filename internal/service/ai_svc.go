package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"xhs_feishu_ops_v1/internal/config"
	"xhs_feishu_ops_v1/pkg/apperr"
	"xhs_feishu_ops_v1/pkg/utils"
)

// geminiBaseURL 生成式接口域名，测试时可替换
const geminiBaseURL = "https://generativelanguage.googleapis.com"

// ==================== 服务 ====================

// AIService 文案生成适配器
type AIService struct {
	cfg    *config.AIConfig
	client *resty.Client
}

// NewAIService 创建 AI 服务
func NewAIService(cfg *config.AIConfig) *AIService {
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-2.0-flash"
	}
	return &AIService{
		cfg:    cfg,
		client: utils.NewAPIClient(geminiBaseURL, 60*time.Second),
	}
}

// NewAIServiceWithBaseURL 指定域名创建 (测试注入 fake 服务器用)
func NewAIServiceWithBaseURL(cfg *config.AIConfig, baseURL string) *AIService {
	svc := NewAIService(cfg)
	svc.client.SetBaseURL(baseURL)
	return svc
}

// ==================== 文案生成 ====================

// RewriteBody 改写正文，必选步骤，失败向上传递
func (s *AIService) RewriteBody(ctx context.Context, prompt, source string) (string, error) {
	if source == "" {
		return "", apperr.Validation("正文不能为空")
	}
	if prompt == "" {
		prompt = "你是小红书爆款文案写手。保留原意和关键信息，重写下面这篇笔记正文，" +
			"口语化、分段短句、适当使用 emoji，不要输出正文以外的任何内容。"
	}
	return s.generate(ctx, prompt, source)
}

// RewriteTitle 改写标题，可选步骤
// 生成失败时优雅降级：返回原标题，仅记日志
func (s *AIService) RewriteTitle(ctx context.Context, prompt, original string) string {
	if original == "" {
		return original
	}
	if prompt == "" {
		prompt = "你是小红书标题专家。把下面的标题改写成 20 字以内的吸睛标题，只输出标题本身。"
	}

	title, err := s.generate(ctx, prompt, original)
	if err != nil {
		logrus.WithError(err).Warn("标题生成失败，沿用原标题")
		return original
	}
	return title
}

// ==================== 内部方法 ====================

// generate 调用生成式接口，取第一个候选的文本
func (s *AIService) generate(ctx context.Context, prompt, source string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", apperr.Validation("生成式接口 api_key 未配置")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]interface{}{
				{"text": prompt + "\n\n" + source},
			}},
		},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.cfg.APIKey).
		SetBody(reqBody).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", s.cfg.TextModel))
	if err != nil {
		return "", fmt.Errorf("生成请求失败: %v", err)
	}

	if resp.StatusCode() != 200 {
		return "", apperr.Remote(resp.StatusCode(), fmt.Sprintf("生成接口错误 [%d]: %s", resp.StatusCode(), resp.String()))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body(), &geminiResp); err != nil {
		return "", fmt.Errorf("生成响应解析失败: %v", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", apperr.Remote(0, "无生成结果")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
