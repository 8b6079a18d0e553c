package main

import (
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ethbatch/v1/internal/app"
	"github.com/ethbatch/v1/internal/config"
)

var runNoProgress bool

// runCmd 执行批次作业文件
var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "执行批次作业",
	Long: `从作业文件（YAML或JSON）加载配置并执行一个批次。

作业文件描述操作类型、端点、链ID、错误策略，以及每个可变参数的
取值方式（静态配置或记录字段）。输入记录来自 items_file 或内联 items。

示例作业文件:

  endpoint: https://rpc.example.org
  chain_id: 1
  operation: transfer
  policy: abortBatch
  key:
    selector: { source: field, field: privateKey }
  to: { source: static, value: "0x1111111111111111111111111111111111111111" }
  amount: { source: field, field: amount }
  items_file: items.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := config.LoadJob(args[0])
		if err != nil {
			return err
		}

		var onItem func(done, total int)
		if !runNoProgress {
			var bar *progressbar.ProgressBar
			onItem = func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription(string(job.Operation)),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(done)
			}
		}

		outputs, err := app.Run(cmd.Context(), job, onItem)
		if err != nil {
			return err
		}
		return printOutputs(outputs)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "关闭进度条")
}
