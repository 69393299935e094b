package server

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/asr"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// Server 是转写服务，持有进程内唯一的识别后端
type Server struct {
	cfg        *models.ServerConfig
	recognizer asr.Recognizer
	opts       asr.DecodeOptions
	errors     *utils.ErrorStats
	mux        *http.ServeMux
}

// New 创建转写服务并注册路由
func New(cfg *models.ServerConfig, recognizer asr.Recognizer) *Server {
	s := &Server{
		cfg:        cfg,
		recognizer: recognizer,
		opts:       asr.OptionsFromConfig(cfg),
		errors:     utils.NewErrorStats(),
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("/transcribe", s.handleTranscribe)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// Handler 返回带访问日志的 http.Handler
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// ErrorStats 返回错误统计
func (s *Server) ErrorStats() *utils.ErrorStats {
	return s.errors
}

func (s *Server) tempDir() string {
	if s.cfg.TempDir != "" {
		return s.cfg.TempDir
	}
	return os.TempDir()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		utils.WithFields(logrus.Fields{
			"request_id": uuid.NewString(),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).Round(time.Millisecond).String(),
		}).Info("请求完成")
	})
}
