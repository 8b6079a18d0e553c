// Package app assembles a batch job run via dependency injection.
package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ethbatch/v1/internal/config"
	"github.com/ethbatch/v1/internal/core/chain"
	"github.com/ethbatch/v1/internal/core/engine"
	"github.com/ethbatch/v1/internal/core/record"
	"github.com/ethbatch/v1/internal/logging"
)

// Run 组装并执行一个批次作业
//
// 组装经由 fx 完成：配置 → 日志器 → 链连接 → 私钥来源 → 执行器。
// onItem 为可选的进度回调。连接在作业结束后随生命周期钩子关闭。
func Run(ctx context.Context, job *config.JobOptions, onItem func(done, total int)) ([]record.Output, error) {
	var exec *engine.Executor
	var items []record.Item

	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(job),
		fx.Provide(
			ProvideLogger,
			ProvideConnection,
			ProvideKeys,
			ProvideItems,
			ProvideExecutor,
		),
		fx.Populate(&exec, &items),
	)
	if err := fxApp.Err(); err != nil {
		return nil, fmt.Errorf("assemble batch job: %w", err)
	}

	if err := fxApp.Start(ctx); err != nil {
		return nil, fmt.Errorf("start batch job: %w", err)
	}
	defer func() {
		_ = fxApp.Stop(context.Background())
	}()

	exec.OnItem = onItem
	return exec.Run(ctx, items)
}

// ProvideLogger 构建作业日志器
func ProvideLogger(lc fx.Lifecycle, job *config.JobOptions) *zap.Logger {
	logger := logging.New(job.Log)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger
}

// ProvideConnection 按配置建立链连接
//
// 未配置端点时返回nil连接（离线操作）；连接随生命周期关闭。
func ProvideConnection(lc fx.Lifecycle, job *config.JobOptions) (chain.Connection, error) {
	if job.Endpoint == "" {
		return nil, nil
	}

	conn, err := chain.Dial(context.Background(), job.Endpoint, job.ChainOptions())
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

// ProvideKeys 按配置选择私钥来源
func ProvideKeys(job *config.JobOptions) (engine.KeyProvider, error) {
	return job.KeyProvider()
}

// ProvideItems 加载输入记录
func ProvideItems(job *config.JobOptions) ([]record.Item, error) {
	return job.LoadItems()
}

// ProvideExecutor 构建批次执行器
func ProvideExecutor(job *config.JobOptions, conn chain.Connection, keys engine.KeyProvider, logger *zap.Logger) (*engine.Executor, error) {
	return engine.New(job.EngineParams(), conn, keys, logger)
}
