package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/asr"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// UnsupportedFormatMessage 是扩展名不受支持时返回给客户端的消息
const UnsupportedFormatMessage = "Format audio non supporté (wav ou mp3 uniquement)."

// FileField 是上传音频的表单字段名
const FileField = "file"

// IsSupportedAudio 判断文件名是否以 .wav 或 .mp3 结尾（不区分大小写）
func IsSupportedAudio(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".wav") || strings.HasSuffix(name, ".mp3")
}

// respondWithError 发送错误 JSON 响应
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, models.ErrorResponse{Detail: message})
}

// respondWithJSON 发送 JSON 响应
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		utils.Error("JSON 序列化错误: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// handleTranscribe 处理 POST /transcribe
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	file, header, err := r.FormFile(FileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Fichier audio trop volumineux.")
			return
		}
		respondWithError(w, http.StatusUnprocessableEntity, "Champ 'file' manquant dans la requête multipart.")
		return
	}
	defer file.Close()

	if !IsSupportedAudio(header.Filename) {
		utils.Warn("拒绝不支持的文件格式: %s", header.Filename)
		respondWithError(w, http.StatusBadRequest, UnsupportedFormatMessage)
		return
	}

	// 临时文件在成功和失败时都会被删除
	tempPath := filepath.Join(s.tempDir(), fmt.Sprintf("%s_%s", strings.ReplaceAll(uuid.NewString(), "-", ""), filepath.Base(header.Filename)))
	defer os.Remove(tempPath)

	err = s.errors.SafeExecute("save_upload", func() error {
		return saveUpload(file, tempPath)
	}, nil)
	if err != nil {
		utils.Error("保存上传文件失败: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	var result *models.Transcription
	err = s.errors.SafeExecute("transcribe", func() error {
		var terr error
		result, terr = s.recognizer.Transcribe(r.Context(), tempPath, s.opts)
		return terr
	}, nil)
	if err != nil {
		utils.Error("识别失败 %s: %v", header.Filename, err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.Info("已转写 %s: 语言=%s, %d 段", header.Filename, result.LanguageDetected, len(result.Segments))
	respondWithJSON(w, http.StatusOK, result)
}

func saveUpload(src io.Reader, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	return dst.Close()
}

// HealthResponse 是 GET /health 的响应体
type HealthResponse struct {
	Status  string                    `json:"status"`
	Backend string                    `json:"backend"`
	Errors  map[string]map[string]int `json:"errors"`
}

// handleHealth 返回后端名称与错误统计，后端不可用时返回 503
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	status, code := "ok", http.StatusOK
	if hc, ok := s.recognizer.(asr.HealthChecker); ok && !hc.Alive() {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, HealthResponse{
		Status:  status,
		Backend: s.recognizer.Name(),
		Errors:  s.errors.Snapshot(),
	})
}
