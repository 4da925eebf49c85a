package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logger = New("", "info", os.Stdout)
	mu     sync.RWMutex
)

// InitLog 初始化全局日志
func InitLog(appName string, logLevel string) {
	// 使用 os.Stdout 而不是 os.Stderr
	// GoLand 控制台会将 stderr 显示为红色，stdout 显示为正常颜色
	l := New(appName, logLevel, os.Stdout)
	// 启用调用者信息（显示文件名和行号）
	l.SetReportCaller(true)
	l.SetCallerOffset(1)

	mu.Lock()
	logger = l
	mu.Unlock()
}

// New 创建独立的日志实例，供需要显式注入日志的组件（如机器人）使用
func New(prefix string, logLevel string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stdout
	}
	l := log.New(w)
	l.SetPrefix(prefix)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetLevel(ParseLevel(logLevel))
	return l
}

// ParseLevel 解析日志级别，默认为 info
func ParseLevel(logLevel string) log.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SetLevel 运行时调整全局日志级别（配置热更新使用）
func SetLevel(logLevel string) {
	current().SetLevel(ParseLevel(logLevel))
}

// Default 返回全局日志实例
func Default() *log.Logger {
	return current()
}

// Discard 返回丢弃所有输出的日志实例，测试中使用
func Discard() *log.Logger {
	return New("", "error", io.Discard)
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Fatal(format string, args ...any) {
	if len(args) == 0 {
		current().Fatal(format)
	} else {
		current().Fatalf(format, args...)
	}
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		current().Info(format)
	} else {
		current().Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		current().Warn(format)
	} else {
		current().Warnf(format, args...)
	}
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		current().Error(format)
	} else {
		current().Errorf(format, args...)
	}
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		current().Debug(format)
	} else {
		current().Debugf(format, args...)
	}
}
