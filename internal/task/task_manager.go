package task

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== TaskManager 定时任务管理器 ====================

// TaskManager 统一管理定时任务
// 目前只有目录同步一个任务；cron 表达式来自配置
type TaskManager struct {
	cron *cron.Cron
	log  *zap.Logger
}

// NewTaskManager 创建任务管理器
func NewTaskManager(log *zap.Logger) *TaskManager {
	return &TaskManager{
		cron: cron.New(),
		log:  log,
	}
}

// RegisterCatalogSync 注册目录同步任务
func (m *TaskManager) RegisterCatalogSync(spec string, task *CatalogSyncTask) error {
	if _, err := m.cron.AddJob(spec, task); err != nil {
		return fmt.Errorf("注册目录同步任务失败 (spec=%q): %w", spec, err)
	}
	m.log.Info("目录同步任务已注册", zap.String("cron", spec))
	return nil
}

// Start 启动调度
func (m *TaskManager) Start() {
	m.cron.Start()
}

// Stop 停止调度，等待在跑的任务收尾
func (m *TaskManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}
