package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu      sync.Mutex
	changed []string
	deleted []string
}

func (h *recordingHandler) OnFileChanged(filePath string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changed = append(h.changed, filepath.Base(filePath))
}

func (h *recordingHandler) OnFileDeleted(filePath string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = append(h.deleted, filepath.Base(filePath))
}

func (h *recordingHandler) snapshot() ([]string, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.changed...), append([]string(nil), h.deleted...)
}

func startMonitor(t *testing.T, dir string, handler FileEventHandler) {
	t.Helper()
	stop, err := StartFolderMonitoring(dir, []string{".wav", ".JSON"}, handler, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(stop)
}

func TestFolderMonitorDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	handler := &recordingHandler{}
	startMonitor(t, dir, handler)

	path := filepath.Join(dir, "clip.wav")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	}

	assert.Eventually(t, func() bool {
		changed, _ := handler.snapshot()
		return len(changed) == 1
	}, 2*time.Second, 20*time.Millisecond)

	// 防抖窗口过后不应再有重复通知
	time.Sleep(150 * time.Millisecond)
	changed, _ := handler.snapshot()
	assert.Equal(t, []string{"clip.wav"}, changed)
}

func TestFolderMonitorIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	handler := &recordingHandler{}
	startMonitor(t, dir, handler)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.wav"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transcripts.json"), []byte("{}"), 0644))

	assert.Eventually(t, func() bool {
		changed, _ := handler.snapshot()
		return len(changed) == 1
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	changed, _ := handler.snapshot()
	assert.Equal(t, []string{"transcripts.json"}, changed)
}

func TestFolderMonitorReportsDeletion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))

	handler := &recordingHandler{}
	startMonitor(t, dir, handler)

	require.NoError(t, os.Remove(path))

	assert.Eventually(t, func() bool {
		_, deleted := handler.snapshot()
		return len(deleted) == 1 && deleted[0] == "clip.wav"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHandlerFunc(t *testing.T) {
	var calls []string
	h := HandlerFunc(func(p string) { calls = append(calls, p) })

	h.OnFileChanged("a.wav")
	h.OnFileDeleted("b.wav")
	assert.Equal(t, []string{"a.wav", "b.wav"}, calls)
}

func TestStartMissingFolder(t *testing.T) {
	_, err := StartFolderMonitoring(filepath.Join(t.TempDir(), "absent"), nil, HandlerFunc(func(string) {}), 0)
	assert.Error(t, err)
}

func TestStopIsIdempotent(t *testing.T) {
	monitor, err := NewFolderMonitor(t.TempDir(), nil, nil, 0)
	require.NoError(t, err)
	require.NoError(t, monitor.Start())
	assert.Equal(t, DefaultDebounce, monitor.debounceTime)

	monitor.Stop()
	assert.NotPanics(t, monitor.Stop)
}
