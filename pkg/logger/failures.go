package logger

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 生成服务失败的持久化日志，独立于应用日志，仅追加
var (
	failureSink *lumberjack.Logger
	failureOnce sync.Once
	failureMu   sync.Mutex
)

// LogAIFailure 将一次最终失败的生成调用写入持久化错误日志。
// 格式：[ISO时间] 上下文:\n错误信息\n调用栈\n\n
func LogAIFailure(context string, err error) {
	failureOnce.Do(func() {
		failureSink = &lumberjack.Logger{
			Filename:   "logs/ai_error.log",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     30,
		}
	})

	entry := fmt.Sprintf("[%s] %s:\n%v\n%s\n\n",
		time.Now().UTC().Format(time.RFC3339), context, err, debug.Stack())

	failureMu.Lock()
	defer failureMu.Unlock()
	failureSink.Write([]byte(entry))
}
