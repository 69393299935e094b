package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
)

// MediaFile 表示一个音频样本文件
type MediaFile struct {
	Path    string    // 文件路径
	Name    string    // 文件名
	Ext     string    // 小写扩展名
	Size    int64     // 文件大小（字节）
	ModTime time.Time // 修改时间
	Title   string    // 标签中的标题，没有标签时为空
}

// MediaScanner 按扩展名扫描样本目录
type MediaScanner struct {
	Extensions []string
}

// NewMediaScanner 创建新的扫描器，扩展名不区分大小写，未指定时接受 .wav 和 .mp3
func NewMediaScanner(extensions ...string) *MediaScanner {
	if len(extensions) == 0 {
		extensions = []string{".wav", ".mp3"}
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &MediaScanner{Extensions: normalized}
}

// Matches 判断文件名是否匹配扫描器的扩展名
func (s *MediaScanner) Matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range s.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// ScanDirectory 扫描指定目录中的音频文件（非递归），结果按文件名排序
func (s *MediaScanner) ScanDirectory(dir string) ([]MediaFile, error) {
	var mediaFiles []MediaFile

	logrus.Debugf("开始扫描目录: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		// 跳过目录和隐藏文件
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !s.Matches(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logrus.Warnf("获取文件信息失败: %v", err)
			continue
		}

		path := filepath.Join(dir, entry.Name())
		mediaFiles = append(mediaFiles, MediaFile{
			Path:    path,
			Name:    entry.Name(),
			Ext:     strings.ToLower(filepath.Ext(path)),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Title:   ReadTitle(path),
		})
	}

	sort.Slice(mediaFiles, func(i, j int) bool {
		return mediaFiles[i].Name < mediaFiles[j].Name
	})

	logrus.Debugf("扫描完成，共找到 %d 个音频文件", len(mediaFiles))
	return mediaFiles, nil
}

// ReadTitle 读取音频文件标签中的标题，读取失败时返回空字符串
func ReadTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			logrus.Debugf("读取音频标签失败 %s: %v", path, err)
		}
		return ""
	}
	return meta.Title()
}

// FilterNewFiles 过滤出不在已知集合中的文件
func (s *MediaScanner) FilterNewFiles(files []MediaFile, known map[string]bool) []MediaFile {
	var newFiles []MediaFile

	for _, file := range files {
		if !known[file.Name] {
			newFiles = append(newFiles, file)
		}
	}

	return newFiles
}

// Names 返回文件名列表
func Names(files []MediaFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
