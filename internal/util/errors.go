package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")

	// 生成服务错误
	ErrEmptyTasks        = errors.New("generated tasks array is empty or invalid")
	ErrMalformedResponse = errors.New("malformed model response")
)

// AIError 外部生成调用最终失败（重试耗尽或不可重试错误）
type AIError struct {
	Err error
}

func (e *AIError) Error() string {
	return fmt.Sprintf("AI call failed: %v", e.Err)
}

func (e *AIError) Unwrap() error { return e.Err }

// SchemaError 生成结果缺少必填字段，Index 为出错任务在数组中的下标
type SchemaError struct {
	Field string
	Index int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("task %d missing required field: %s", e.Index, e.Field)
}
