package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// DefaultDebounce 是同一文件连续事件合并的等待时间
const DefaultDebounce = 500 * time.Millisecond

// FileEventHandler 是处理文件事件的接口
type FileEventHandler interface {
	OnFileChanged(filePath string)
	OnFileDeleted(filePath string)
}

// HandlerFunc 把一个函数适配为 FileEventHandler，变化与删除都调用它
type HandlerFunc func(filePath string)

// OnFileChanged 实现 FileEventHandler
func (f HandlerFunc) OnFileChanged(filePath string) { f(filePath) }

// OnFileDeleted 实现 FileEventHandler
func (f HandlerFunc) OnFileDeleted(filePath string) { f(filePath) }

// FolderMonitor 监控文件夹变化
type FolderMonitor struct {
	watcher        *fsnotify.Watcher
	folderPath     string
	fileExtensions []string
	handler        FileEventHandler
	debounceTime   time.Duration
	pendingFiles   map[string]*time.Timer
	mutex          sync.Mutex
	stopChan       chan struct{}
	stopOnce       sync.Once
}

// NewFolderMonitor 创建新的文件夹监控器，extensions 为空时监控所有文件
func NewFolderMonitor(folderPath string, extensions []string, handler FileEventHandler, debounceTime time.Duration) (*FolderMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}
	if debounceTime <= 0 {
		debounceTime = DefaultDebounce
	}

	normalized := make([]string, len(extensions))
	for i, ext := range extensions {
		normalized[i] = strings.ToLower(ext)
	}

	monitor := &FolderMonitor{
		watcher:        watcher,
		folderPath:     folderPath,
		fileExtensions: normalized,
		handler:        handler,
		debounceTime:   debounceTime,
		pendingFiles:   make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}

	return monitor, nil
}

// Start 开始监控文件夹
func (m *FolderMonitor) Start() error {
	if !utils.CheckDirExists(m.folderPath) {
		m.watcher.Close()
		return fmt.Errorf("文件夹不存在: %s", m.folderPath)
	}

	if err := m.watcher.Add(m.folderPath); err != nil {
		m.watcher.Close()
		return fmt.Errorf("添加监控文件夹失败: %w", err)
	}

	go m.watchLoop()

	utils.Info("开始监控文件夹: %s", m.folderPath)
	return nil
}

// Stop 停止监控，可重复调用
func (m *FolderMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.watcher.Close()
		utils.Info("停止监控文件夹: %s", m.folderPath)

		// 取消所有待处理的文件定时器
		m.mutex.Lock()
		defer m.mutex.Unlock()
		for path, timer := range m.pendingFiles {
			timer.Stop()
			delete(m.pendingFiles, path)
		}
	})
}

// watchLoop 监控循环
func (m *FolderMonitor) watchLoop() {
	for {
		select {
		case <-m.stopChan:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleFileEvent(event)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			utils.Error("监控文件夹时出错: %v", err)
		}
	}
}

// 处理文件事件
func (m *FolderMonitor) handleFileEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	filePath := event.Name
	if !m.isTargetFile(filePath) {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	select {
	case <-m.stopChan:
		return
	default:
	}

	// 取消已存在的定时器
	if timer, exists := m.pendingFiles[filePath]; exists {
		timer.Stop()
	}

	m.pendingFiles[filePath] = time.AfterFunc(m.debounceTime, func() {
		m.processFile(filePath)
	})

	utils.Debug("检测到文件变化: %s (%s)", filePath, event.Op)
}

// 判断是否为目标文件类型，已删除的文件只按扩展名判断
func (m *FolderMonitor) isTargetFile(filePath string) bool {
	if strings.HasPrefix(filepath.Base(filePath), ".") {
		return false
	}
	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.IsDir() {
		return false
	}
	if len(m.fileExtensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	for _, targetExt := range m.fileExtensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}

// 防抖结束后按文件当前状态分发事件
func (m *FolderMonitor) processFile(filePath string) {
	m.mutex.Lock()
	delete(m.pendingFiles, filePath)
	m.mutex.Unlock()

	if m.handler == nil {
		return
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		utils.Debug("文件已删除: %s", filePath)
		m.handler.OnFileDeleted(filePath)
		return
	}

	utils.Debug("文件已更新: %s", filePath)
	m.handler.OnFileChanged(filePath)
}

// StartFolderMonitoring 开始监控文件夹，返回停止函数
func StartFolderMonitoring(folder string, extensions []string, handler FileEventHandler, debounceTime time.Duration) (func(), error) {
	monitor, err := NewFolderMonitor(folder, extensions, handler, debounceTime)
	if err != nil {
		return nil, err
	}

	if err := monitor.Start(); err != nil {
		return nil, err
	}

	return monitor.Stop, nil
}
