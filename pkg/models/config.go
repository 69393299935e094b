package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// 识别后端名称
const (
	BackendFasterWhisper = "faster-whisper"
)

// ServerConfig 表示转写服务的配置
type ServerConfig struct {
	ListenAddr              string `json:"listen_addr"`                 // 监听地址
	Backend                 string `json:"backend"`                     // 识别后端
	ModelPath               string `json:"model_path"`                  // CTranslate2 模型目录
	Device                  string `json:"device"`                      // cpu / cuda / auto
	ComputeType             string `json:"compute_type"`                // int8 / float16 ...
	PythonBin               string `json:"python_bin"`                  // 运行 worker 的解释器
	BeamSize                int    `json:"beam_size"`                   // beam search 宽度
	Language                string `json:"language"`                    // 强制语言
	ConditionOnPreviousText bool   `json:"condition_on_previous_text"` // 是否以前文作为条件
	TempDir                 string `json:"temp_dir"`                    // 临时目录，空表示系统默认
	MaxUploadMB             int64  `json:"max_upload_mb"`               // 上传大小上限
	LogLevel                string `json:"log_level"`                   // 日志级别
	LogFile                 string `json:"log_file"`                    // 日志文件
}

// SampleSetConfig 描述一组自带的示例音频
type SampleSetConfig struct {
	Name            string `json:"name"`             // 样本集名称，界面显示为 "Samples <name>"
	Dir             string `json:"dir"`              // 音频目录
	Extension       string `json:"extension"`        // 音频扩展名，如 .wav
	TranscriptsFile string `json:"transcripts_file"` // 参考文本 JSON，空表示 <dir>/transcripts.json
}

// TranscriptsPath 返回参考文本文件路径
func (s SampleSetConfig) TranscriptsPath() string {
	if s.TranscriptsFile != "" {
		return s.TranscriptsFile
	}
	return filepath.Join(s.Dir, "transcripts.json")
}

// DemoConfig 表示交互式演示客户端的配置
type DemoConfig struct {
	ListenAddr     string            `json:"listen_addr"`     // 监听地址
	ServiceURL     string            `json:"service_url"`     // 转写服务地址
	SampleSets     []SampleSetConfig `json:"sample_sets"`     // 示例音频集合
	WatchSamples   bool              `json:"watch_samples"`   // 是否监听示例目录变化
	MaxUploadMB    int64             `json:"max_upload_mb"`   // 上传大小上限
	RecordRateHint int               `json:"record_rate_hint"` // 麦克风采样率提示
	LogLevel       string            `json:"log_level"`       // 日志级别
	LogFile        string            `json:"log_file"`        // 日志文件
}

// ConfigValidationError 表示配置验证错误
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("配置验证错误: %s - %s", e.Field, e.Message)
}

// NewDefaultServerConfig 创建默认的服务配置
func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:              ":10300",
		Backend:                 BackendFasterWhisper,
		ModelPath:               "/app/models/whisper-large-v3-french-distil-dec16-ct2/ctranslate2",
		Device:                  "cpu",
		ComputeType:             "int8",
		PythonBin:               "python3",
		BeamSize:                5,
		Language:                "fr",
		ConditionOnPreviousText: false,
		TempDir:                 "",
		MaxUploadMB:             100,
		LogLevel:                "INFO",
	}
}

// NewDefaultDemoConfig 创建默认的演示客户端配置
func NewDefaultDemoConfig() *DemoConfig {
	return &DemoConfig{
		ListenAddr: ":8501",
		ServiceURL: "http://asrserver:10300/transcribe",
		SampleSets: []SampleSetConfig{
			{Name: "VoxPopuli", Dir: "samples_voxpopuli", Extension: ".wav"},
			{Name: "CommonVoice21FR", Dir: "samples_commonvoice21", Extension: ".mp3"},
		},
		WatchSamples:   true,
		MaxUploadMB:    100,
		RecordRateHint: 16000,
		LogLevel:       "INFO",
	}
}

// Validate 验证服务配置是否有效
func (c *ServerConfig) Validate() error {
	if c.ListenAddr == "" {
		return &ConfigValidationError{"ListenAddr", "不能为空"}
	}
	if c.Backend != BackendFasterWhisper {
		return &ConfigValidationError{"Backend", fmt.Sprintf("未知的识别后端: %s", c.Backend)}
	}
	if c.ModelPath == "" {
		return &ConfigValidationError{"ModelPath", "不能为空"}
	}
	if c.BeamSize < 1 || c.BeamSize > 20 {
		return &ConfigValidationError{"BeamSize", "必须在1-20之间"}
	}
	if c.Language == "" {
		return &ConfigValidationError{"Language", "不能为空"}
	}
	if c.MaxUploadMB < 1 {
		return &ConfigValidationError{"MaxUploadMB", "必须大于0"}
	}
	if c.TempDir != "" {
		if err := os.MkdirAll(c.TempDir, 0755); err != nil {
			return &ConfigValidationError{"TempDir", err.Error()}
		}
	}
	return nil
}

// Validate 验证客户端配置是否有效
func (c *DemoConfig) Validate() error {
	if c.ListenAddr == "" {
		return &ConfigValidationError{"ListenAddr", "不能为空"}
	}
	if !strings.HasPrefix(c.ServiceURL, "http://") && !strings.HasPrefix(c.ServiceURL, "https://") {
		return &ConfigValidationError{"ServiceURL", "必须是 http(s) 地址"}
	}
	seen := make(map[string]bool)
	for _, set := range c.SampleSets {
		if set.Name == "" || set.Dir == "" {
			return &ConfigValidationError{"SampleSets", "名称和目录不能为空"}
		}
		if seen[set.Name] {
			return &ConfigValidationError{"SampleSets", fmt.Sprintf("重复的名称: %s", set.Name)}
		}
		seen[set.Name] = true
		if !strings.HasPrefix(set.Extension, ".") {
			return &ConfigValidationError{"SampleSets", fmt.Sprintf("扩展名必须以点开头: %s", set.Extension)}
		}
	}
	if c.MaxUploadMB < 1 {
		return &ConfigValidationError{"MaxUploadMB", "必须大于0"}
	}
	return nil
}

type validator interface {
	Validate() error
}

// LoadFromFile 从文件加载配置
func (c *ServerConfig) LoadFromFile(path string) error {
	return loadConfigFile(path, c)
}

// LoadFromFile 从文件加载配置
func (c *DemoConfig) LoadFromFile(path string) error {
	return loadConfigFile(path, c)
}

// SaveToFile 保存配置到文件
func (c *ServerConfig) SaveToFile(path string) error {
	return saveConfigFile(path, c)
}

// SaveToFile 保存配置到文件
func (c *DemoConfig) SaveToFile(path string) error {
	return saveConfigFile(path, c)
}

func loadConfigFile(path string, cfg validator) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("读取配置文件失败: %v", err)
		return err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		logrus.Errorf("解析配置文件失败: %v", err)
		return err
	}

	if err := cfg.Validate(); err != nil {
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}
	return nil
}

func saveConfigFile(path string, cfg interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logrus.Errorf("创建目录失败: %v", err)
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		logrus.Errorf("写入配置文件失败: %v", err)
		return err
	}
	return nil
}
