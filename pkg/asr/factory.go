package asr

import (
	"fmt"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
)

// New 根据配置创建识别后端
func New(cfg *models.ServerConfig) (Recognizer, error) {
	switch cfg.Backend {
	case models.BackendFasterWhisper, "":
		return NewFasterWhisper(WorkerConfig{
			PythonBin:   cfg.PythonBin,
			ModelPath:   cfg.ModelPath,
			Device:      cfg.Device,
			ComputeType: cfg.ComputeType,
		})
	}
	return nil, fmt.Errorf("未知的识别后端: %s", cfg.Backend)
}
