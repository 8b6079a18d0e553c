package log

// 日志配置默认值
const (
	// defaultLogLevel 默认日志级别
	// info级别平衡信息量与性能，批次处理的条目进度都在此级别记录
	defaultLogLevel = "info"

	// defaultToConsole 默认输出到控制台
	defaultToConsole = true

	// defaultMaxSize 单个日志文件最大大小(MB)
	defaultMaxSize = 100

	// defaultMaxBackups 最大备份文件数
	defaultMaxBackups = 10

	// defaultMaxAge 日志文件最大保留天数
	defaultMaxAge = 30

	// defaultCompress 默认压缩历史日志
	defaultCompress = true

	// defaultEnableCaller 默认记录调用者信息
	defaultEnableCaller = true

	// defaultEnableStacktrace 默认对Error级别记录堆栈
	defaultEnableStacktrace = true
)
