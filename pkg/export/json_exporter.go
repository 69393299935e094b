package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// TranscriptDocument 是导出到磁盘的转写结果
type TranscriptDocument struct {
	Source   string                     `json:"source"`
	Language string                     `json:"language_detected"`
	FullText string                     `json:"full_text"`
	Segments []models.TranscriptSegment `json:"segments"`
}

// JSONExporter 负责将转写结果导出为JSON文件
type JSONExporter struct {
	OutputFolder string
}

// NewJSONExporter 创建一个新的JSON导出器
func NewJSONExporter(outputFolder string) *JSONExporter {
	return &JSONExporter{
		OutputFolder: outputFolder,
	}
}

// GenerateJSONContent 根据转写结果生成导出文档
func GenerateJSONContent(result *models.Transcription, source string) TranscriptDocument {
	segments := result.Segments
	if segments == nil {
		segments = []models.TranscriptSegment{}
	}
	return TranscriptDocument{
		Source:   filepath.Base(source),
		Language: result.LanguageDetected,
		FullText: result.FullText(),
		Segments: segments,
	}
}

// ExportJSON 导出JSON格式文件，返回输出路径
func (e *JSONExporter) ExportJSON(result *models.Transcription, filename string) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	outputFile := filepath.Join(e.OutputFolder, baseName(filename)+".json")
	if err := utils.SaveJSONFile(outputFile, GenerateJSONContent(result, filename)); err != nil {
		return "", fmt.Errorf("写入JSON文件失败: %w", err)
	}

	utils.Info("已导出JSON文件: %s", outputFile)
	return outputFile, nil
}
