package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
)

// APIError 表示转写服务返回了非 200 状态
type APIError struct {
	StatusCode int
	Body       string
}

// Error 实现error接口，消息直接展示给用户
func (e *APIError) Error() string {
	return "Erreur API: " + e.Body
}

// Client 是转写服务的 HTTP 客户端
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient 创建客户端，不设置超时
func NewClient(url string) *Client {
	return &Client{URL: url, HTTPClient: &http.Client{}}
}

// Transcribe 以 multipart 字段 "file" 上传音频并解析结果
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (*models.Transcription, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("创建表单失败: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("读取音频失败: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("创建表单失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求转写服务失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result models.Transcription
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	return &result, nil
}

// TranscribeFile 上传本地文件
func (c *Client) TranscribeFile(ctx context.Context, path string) (*models.Transcription, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开音频文件失败: %w", err)
	}
	defer f.Close()
	return c.Transcribe(ctx, filepath.Base(path), f)
}
