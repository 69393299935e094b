package utils

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioToolsErrorUnwrap(t *testing.T) {
	cause := errors.New("disque plein")
	err := NewError("写入临时文件失败", cause)

	assert.Equal(t, "写入临时文件失败: disque plein", err.Error())
	assert.True(t, errors.Is(err, cause))

	var toolsErr *AudioToolsError
	assert.True(t, errors.As(err, &toolsErr))
	assert.Equal(t, "写入临时文件失败", toolsErr.Message)

	assert.Equal(t, "seul", NewError("seul", nil).Error())
}

func TestSafeExecute(t *testing.T) {
	stats := NewErrorStats()

	// 成功执行不需要清理
	cleaned := false
	err := stats.SafeExecute("transcribe", func() error { return nil }, func() { cleaned = true })
	assert.NoError(t, err)
	assert.False(t, cleaned)

	// 失败执行需要清理
	testErr := errors.New("预期错误")
	err = stats.SafeExecute("transcribe", func() error { return testErr }, func() { cleaned = true })
	assert.Error(t, err)
	assert.True(t, errors.Is(err, testErr))
	assert.True(t, cleaned)
	assert.Equal(t, 1, stats.Snapshot()["transcribe"]["预期错误"])
}

func TestErrorStatsConcurrentRecord(t *testing.T) {
	stats := NewErrorStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.Record("op1", errors.New("err1"))
		}()
	}
	wg.Wait()

	stats.Record("op2", errors.New("err2"))
	stats.Record("op2", nil)

	snapshot := stats.Snapshot()
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 50, stats.Total("op1"))
	assert.Equal(t, 1, stats.Total("op2"))
	assert.Equal(t, 0, stats.Total("absent"))

	// 副本修改不影响内部状态
	snapshot["op1"]["err1"] = 0
	assert.Equal(t, 50, stats.Total("op1"))

	stats.PrintErrorStats()
}
