package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"xhs_feishu_ops_v1/internal/service"
)

// TokenTask 凭证保活任务
// 周期性走一遍 Token 有效性检查，临期凭证在后台被动刷新，
// 避免批量操作进行到一半撞上过期
type TokenTask struct {
	AuthService *service.AuthService
	Cron        *cron.Cron
}

func NewTokenTask(authService *service.AuthService) *TokenTask {
	return &TokenTask{
		AuthService: authService,
		Cron:        cron.New(),
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		logrus.Info("[Task] 服务启动，执行首次 Token 检查...")
		t.refreshJob(ctx)
	}()

	// 每 30 分钟检查一次，落在 5 分钟安全边界之内
	_, err := t.Cron.AddFunc("@every 30m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.refreshJob(ctx)
	})
	if err != nil {
		logrus.WithError(err).Fatal("无法启动 Token 定时任务")
	}

	t.Cron.Start()
	logrus.Info("Token 保活任务已启动 (每30分钟检查一次)")
}

// Stop 停止定时任务
func (t *TokenTask) Stop() {
	t.Cron.Stop()
}

// refreshJob 保活逻辑: GetValidAccessToken 内部自带临期刷新
func (t *TokenTask) refreshJob(ctx context.Context) {
	token, err := t.AuthService.GetValidAccessToken(ctx)
	if err != nil {
		logrus.WithError(err).Error("[Cron] Token 检查失败")
		return
	}
	if token == "" {
		logrus.Warn("[Cron] 当前未登录，跳过保活")
		return
	}
	logrus.Debug("[Cron] Token 检查完成")
}
