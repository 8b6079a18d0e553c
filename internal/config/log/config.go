// Package log carries the logging configuration shared by the CLI and the
// batch execution engine.
package log

import (
	"go.uber.org/zap/zapcore"
)

// Options 日志配置选项
type Options struct {
	// === 基础配置 ===
	Level     string `yaml:"level" json:"level"`           // 日志级别 (debug, info, warn, error)
	ToConsole bool   `yaml:"to_console" json:"to_console"` // 是否输出到控制台
	FilePath  string `yaml:"file_path" json:"file_path"`   // 日志文件路径（空则不写文件）

	// === 轮转配置 ===
	MaxSize    int  `yaml:"max_size" json:"max_size"`       // 单个日志文件最大大小(MB)
	MaxBackups int  `yaml:"max_backups" json:"max_backups"` // 最大备份文件数
	MaxAge     int  `yaml:"max_age" json:"max_age"`         // 日志文件最大保留天数
	Compress   bool `yaml:"compress" json:"compress"`       // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `yaml:"enable_caller" json:"enable_caller"`         // 是否记录调用者信息
	EnableStacktrace bool `yaml:"enable_stacktrace" json:"enable_stacktrace"` // Error级别是否记录堆栈
}

// Default 返回默认日志配置
func Default() *Options {
	return &Options{
		Level:            defaultLogLevel,
		ToConsole:        defaultToConsole,
		FilePath:         "",
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
	}
}

// ZapLevel 将配置的级别字符串转为zap级别
//
// 未知级别回退为 info。
func (o *Options) ZapLevel() zapcore.Level {
	switch o.Level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
