package demo

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/internal/watcher"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// NoReference 是没有参考转写时显示的文本
const NoReference = "Pas de référence disponible"

// SampleSet 是一个带参考转写的样本目录
type SampleSet struct {
	cfg     models.SampleSetConfig
	scanner *scanner.MediaScanner

	mu          sync.RWMutex
	files       []scanner.MediaFile
	transcripts map[string]string
}

// NewSampleSet 创建样本集并立即加载
func NewSampleSet(cfg models.SampleSetConfig) (*SampleSet, error) {
	s := &SampleSet{
		cfg:         cfg,
		scanner:     scanner.NewMediaScanner(cfg.Extension),
		transcripts: map[string]string{},
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name 返回样本集名称
func (s *SampleSet) Name() string {
	return s.cfg.Name
}

// Slug 返回用于 URL 的名称
func (s *SampleSet) Slug() string {
	return strings.ToLower(s.cfg.Name)
}

// Extension 返回样本扩展名
func (s *SampleSet) Extension() string {
	return s.scanner.Extensions[0]
}

// Reload 重新扫描目录并读取 transcripts.json
func (s *SampleSet) Reload() error {
	files, err := s.scanner.ScanDirectory(s.cfg.Dir)
	if err != nil {
		return fmt.Errorf("扫描样本目录失败 %s: %w", s.cfg.Dir, err)
	}

	transcripts := map[string]string{}
	path := s.cfg.TranscriptsPath()
	if utils.CheckFileExists(path) {
		if err := utils.LoadJSONFile(path, &transcripts); err != nil {
			return fmt.Errorf("加载参考转写失败: %w", err)
		}
	} else {
		utils.Warn("样本集 %s 缺少参考转写文件: %s", s.cfg.Name, path)
	}

	s.mu.Lock()
	known := make(map[string]bool, len(s.files))
	for _, f := range s.files {
		known[f.Name] = true
	}
	added := s.scanner.FilterNewFiles(files, known)
	s.files = files
	s.transcripts = transcripts
	s.mu.Unlock()

	if len(known) > 0 && len(added) > 0 {
		utils.Info("样本集 %s 新增 %d 个样本: %s", s.cfg.Name, len(added), strings.Join(scanner.Names(added), ", "))
	}
	utils.Debug("样本集 %s: %d 个样本, %d 条参考转写", s.cfg.Name, len(files), len(transcripts))
	return nil
}

// Files 返回当前样本列表（按文件名排序）
func (s *SampleSet) Files() []scanner.MediaFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]scanner.MediaFile(nil), s.files...)
}

// Path 返回样本的完整路径，样本不在列表中时返回 false
func (s *SampleSet) Path(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.files {
		if f.Name == name {
			return f.Path, true
		}
	}
	return "", false
}

// Reference 返回样本的参考转写
func (s *SampleSet) Reference(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref, ok := s.transcripts[name]; ok {
		return ref
	}
	return NoReference
}

// Watch 监控样本目录，音频或参考转写变化时重新加载
func (s *SampleSet) Watch(debounce time.Duration) (func(), error) {
	extensions := append([]string{filepath.Ext(s.cfg.TranscriptsPath())}, s.scanner.Extensions...)
	return watcher.StartFolderMonitoring(s.cfg.Dir, extensions, watcher.HandlerFunc(func(path string) {
		utils.Info("样本目录变化, 重新加载 %s: %s", s.cfg.Name, filepath.Base(path))
		if err := s.Reload(); err != nil {
			utils.Error("重新加载样本集失败: %v", err)
		}
	}), debounce)
}
