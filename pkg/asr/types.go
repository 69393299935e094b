package asr

import (
	"context"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
)

// DecodeOptions 是传给识别模型的解码参数
type DecodeOptions struct {
	BeamSize                int    `json:"beam_size"`
	Language                string `json:"language"`
	ConditionOnPreviousText bool   `json:"condition_on_previous_text"`
}

// Recognizer 定义了语音识别后端的接口
type Recognizer interface {
	// Transcribe 识别音频文件，返回检测到的语言和按时间排序的片段
	Transcribe(ctx context.Context, audioPath string, opts DecodeOptions) (*models.Transcription, error)
	// Name 返回后端名称（用于日志）
	Name() string
	// Close 释放模型资源
	Close() error
}

// HealthChecker 由能够报告自身状态的后端实现
type HealthChecker interface {
	Alive() bool
}

// OptionsFromConfig 从服务配置生成解码参数
func OptionsFromConfig(cfg *models.ServerConfig) DecodeOptions {
	return DecodeOptions{
		BeamSize:                cfg.BeamSize,
		Language:                cfg.Language,
		ConditionOnPreviousText: cfg.ConditionOnPreviousText,
	}
}
