package utils

import (
	"fmt"
	"sort"
	"sync"
)

// AudioToolsError 是带原因的错误基础类型
type AudioToolsError struct {
	Message string
	Cause   error
}

// Error 实现error接口
func (e *AudioToolsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

// Unwrap 支持error chain
func (e *AudioToolsError) Unwrap() error {
	return e.Cause
}

// NewError 创建一个新的AudioToolsError
func NewError(message string, cause error) error {
	return &AudioToolsError{
		Message: message,
		Cause:   cause,
	}
}

// ErrorStats 按操作统计错误，可并发使用
type ErrorStats struct {
	mu    sync.Mutex
	stats map[string]map[string]int // 操作 -> 错误信息 -> 计数
}

// NewErrorStats 创建新的错误统计器
func NewErrorStats() *ErrorStats {
	return &ErrorStats{stats: make(map[string]map[string]int)}
}

// Record 记录一次错误，err 为 nil 时忽略
func (s *ErrorStats) Record(operation string, err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats[operation] == nil {
		s.stats[operation] = make(map[string]int)
	}
	s.stats[operation][err.Error()]++
}

// SafeExecute 执行函数，失败时记录错误、执行清理并包装错误
func (s *ErrorStats) SafeExecute(operation string, fn func() error, cleanup func()) error {
	if err := fn(); err != nil {
		s.Record(operation, err)
		if cleanup != nil {
			Debug("执行清理操作: %s", operation)
			cleanup()
		}
		return NewError(fmt.Sprintf("操作 %s 失败", operation), err)
	}
	return nil
}

// Snapshot 返回统计信息的副本
func (s *ErrorStats) Snapshot() map[string]map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]map[string]int, len(s.stats))
	for op, errs := range s.stats {
		inner := make(map[string]int, len(errs))
		for msg, n := range errs {
			inner[msg] = n
		}
		out[op] = inner
	}
	return out
}

// Total 返回某个操作的错误总数
func (s *ErrorStats) Total(operation string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.stats[operation] {
		total += n
	}
	return total
}

// PrintErrorStats 打印错误统计信息
func (s *ErrorStats) PrintErrorStats() {
	snapshot := s.Snapshot()
	if len(snapshot) == 0 {
		Info("没有错误记录")
		return
	}

	ops := make([]string, 0, len(snapshot))
	for op := range snapshot {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	Info("错误统计:")
	for _, op := range ops {
		Info("操作: %s", op)
		for msg, count := range snapshot[op] {
			Info("  - %s: %d次", msg, count)
		}
	}
}
