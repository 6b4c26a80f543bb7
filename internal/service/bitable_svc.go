package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"xhs_feishu_ops_v1/internal/config"
	"xhs_feishu_ops_v1/pkg/apperr"
	"xhs_feishu_ops_v1/pkg/feishu"
	"xhs_feishu_ops_v1/pkg/utils"
)

// ==================== 外部服务依赖 ====================

// TokenProvider Token 提供方接口 (由 AuthService 实现)
type TokenProvider interface {
	GetValidAccessToken(ctx context.Context) (string, error)
	GetTenantAccessToken(ctx context.Context) (string, error)
}

// ==================== 服务 ====================

// BitableService 多维表格记录 CRUD 适配器
// 所有请求优先携带用户级 Token，用户未登录时退回应用级 Token
type BitableService struct {
	cfg    *config.FeishuConfig
	tokens TokenProvider
	client *resty.Client
}

// NewBitableService 创建多维表格服务
func NewBitableService(cfg *config.FeishuConfig, tokens TokenProvider) *BitableService {
	return &BitableService{
		cfg:    cfg,
		tokens: tokens,
		client: utils.NewAPIClient(cfg.BaseURL, 30*time.Second),
	}
}

// ==================== 记录 CRUD ====================

// ListRecords 分页拉取记录
// pageSize 超过服务端上限时压到 500
func (s *BitableService) ListRecords(ctx context.Context, pageSize int, pageToken string) (*feishu.ListRecordsData, error) {
	if pageSize <= 0 || pageSize > feishu.MaxPageSize {
		pageSize = feishu.MaxPageSize
	}

	token, err := s.resolveToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("page_size", strconv.Itoa(pageSize)).
		SetQueryParam("page_token", pageToken).
		Get(s.recordsPath())
	if err != nil {
		return nil, err
	}

	raw, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var data feishu.ListRecordsData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("记录列表解析失败: %v", err)
	}
	return &data, nil
}

// ListAllRecords 翻页拉完整张表 (批量提取筛选待处理行时使用)
func (s *BitableService) ListAllRecords(ctx context.Context) ([]feishu.Record, error) {
	var all []feishu.Record
	pageToken := ""
	for {
		page, err := s.ListRecords(ctx, feishu.MaxPageSize, pageToken)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.HasMore || page.PageToken == "" {
			return all, nil
		}
		pageToken = page.PageToken
	}
}

// GetRecord 按 ID 获取单条记录
func (s *BitableService) GetRecord(ctx context.Context, recordID string) (*feishu.Record, error) {
	if recordID == "" {
		return nil, apperr.Validation("record_id 不能为空")
	}

	token, err := s.resolveToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(s.recordsPath() + "/" + recordID)
	if err != nil {
		return nil, err
	}

	raw, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var data feishu.RecordData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("记录解析失败: %v", err)
	}
	return &data.Record, nil
}

// BatchCreateRecords 批量创建记录
// 超过单次上限 (500) 时切块，块之间并发发送；1200 条正好打 3 次接口
func (s *BitableService) BatchCreateRecords(ctx context.Context, records []feishu.RecordReq) ([]feishu.Record, error) {
	if len(records) == 0 {
		return nil, apperr.Validation("records 不能为空")
	}

	token, err := s.resolveToken(ctx)
	if err != nil {
		return nil, err
	}

	// 切块
	var chunks [][]feishu.RecordReq
	for start := 0; start < len(records); start += feishu.MaxBatchCreate {
		end := start + feishu.MaxBatchCreate
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}

	// 并发发送，结果按块序归位保持输入顺序
	results := make([][]feishu.Record, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			created, err := s.batchCreateChunk(gctx, token, chunk)
			if err != nil {
				return err
			}
			results[i] = created
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []feishu.Record
	for _, part := range results {
		all = append(all, part...)
	}
	return all, nil
}

func (s *BitableService) batchCreateChunk(ctx context.Context, token string, chunk []feishu.RecordReq) ([]feishu.Record, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(&feishu.BatchCreateReq{Records: chunk}).
		Post(s.recordsPath() + "/batch_create")
	if err != nil {
		return nil, err
	}

	raw, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var data feishu.BatchCreateData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("批量创建响应解析失败: %v", err)
	}
	return data.Records, nil
}

// UpdateRecord 更新单条记录的指定字段
func (s *BitableService) UpdateRecord(ctx context.Context, recordID string, fields map[string]interface{}) error {
	if recordID == "" {
		return apperr.Validation("record_id 不能为空")
	}

	token, err := s.resolveToken(ctx)
	if err != nil {
		return err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(&feishu.RecordReq{Fields: fields}).
		Put(s.recordsPath() + "/" + recordID)
	if err != nil {
		return err
	}

	_, err = parseEnvelope(resp)
	return err
}

// DeleteRecord 删除单条记录
func (s *BitableService) DeleteRecord(ctx context.Context, recordID string) error {
	if recordID == "" {
		return apperr.Validation("record_id 不能为空")
	}

	token, err := s.resolveToken(ctx)
	if err != nil {
		return err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(s.recordsPath() + "/" + recordID)
	if err != nil {
		return err
	}

	_, err = parseEnvelope(resp)
	return err
}

// ==================== 内部方法 ====================

func (s *BitableService) recordsPath() string {
	return fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables/%s/records", s.cfg.AppToken, s.cfg.TableID)
}

// resolveToken 用户 Token 优先，未登录退回应用 Token
func (s *BitableService) resolveToken(ctx context.Context) (string, error) {
	userToken, err := s.tokens.GetValidAccessToken(ctx)
	if err == nil && userToken != "" {
		return userToken, nil
	}

	tenantToken, terr := s.tokens.GetTenantAccessToken(ctx)
	if terr != nil {
		return "", apperr.Auth(fmt.Sprintf("用户未登录且应用 Token 获取失败: %v", terr))
	}
	return tenantToken, nil
}

// parseEnvelope 拆开放平台响应包，code != 0 转为带分类的远端错误
func parseEnvelope(resp *resty.Response) (json.RawMessage, error) {
	if resp.StatusCode() != 200 {
		return nil, apperr.Remote(resp.StatusCode(), fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), resp.String()))
	}

	var envelope feishu.APIResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("响应包解析失败: %v", err)
	}
	if envelope.Code != 0 {
		return nil, apperr.Remote(envelope.Code, envelope.Msg)
	}
	return envelope.Data, nil
}
