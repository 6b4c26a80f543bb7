package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhs_feishu_ops_v1/internal/config"
	"xhs_feishu_ops_v1/pkg/apperr"
)

// ==================== 测试环境 ====================

func newAITestService(t *testing.T, replyText string, failServer *int64) *AIService {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if failServer != nil && atomic.LoadInt64(failServer) != 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]interface{}{{"text": replyText}},
				}},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewAIServiceWithBaseURL(&config.AIConfig{APIKey: "test-key"}, server.URL)
}

// ==================== 正文改写 ====================

func TestRewriteBody_成功改写(t *testing.T) {
	svc := newAITestService(t, "改写后的正文✨", nil)

	out, err := svc.RewriteBody(context.Background(), "", "原始正文")
	require.NoError(t, err)
	assert.Equal(t, "改写后的正文✨", out)
}

func TestRewriteBody_失败向上传递(t *testing.T) {
	var fail int64 = 1
	svc := newAITestService(t, "", &fail)

	_, err := svc.RewriteBody(context.Background(), "", "原始正文")
	require.Error(t, err, "正文是必选步骤，失败必须抛给调用方")
	assert.True(t, apperr.IsKind(err, apperr.KindRemote))
}

func TestRewriteBody_空正文被拒(t *testing.T) {
	svc := newAITestService(t, "x", nil)

	_, err := svc.RewriteBody(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRewriteBody_未配置密钥被拒(t *testing.T) {
	svc := NewAIServiceWithBaseURL(&config.AIConfig{}, "http://127.0.0.1:0")

	_, err := svc.RewriteBody(context.Background(), "", "正文")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

// ==================== 标题改写 ====================

func TestRewriteTitle_成功改写(t *testing.T) {
	svc := newAITestService(t, "爆款新标题", nil)

	title := svc.RewriteTitle(context.Background(), "", "原标题")
	assert.Equal(t, "爆款新标题", title)
}

func TestRewriteTitle_失败降级沿用原标题(t *testing.T) {
	var fail int64 = 1
	svc := newAITestService(t, "", &fail)

	title := svc.RewriteTitle(context.Background(), "", "原标题")
	assert.Equal(t, "原标题", title, "标题是可选步骤，失败降级不抛错")
}

func TestRewriteTitle_空标题直接返回(t *testing.T) {
	svc := newAITestService(t, "不应被用到", nil)

	title := svc.RewriteTitle(context.Background(), "", "")
	assert.Equal(t, "", title)
}

// ==================== 响应解析 ====================

func TestGenerate_无候选视为远端错误(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	svc := NewAIServiceWithBaseURL(&config.AIConfig{APIKey: "test-key"}, server.URL)

	_, err := svc.RewriteBody(context.Background(), "", "正文")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindRemote))
}
