package asr

import (
	"bufio"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

//go:embed assets/faster_whisper_worker.py
var workerAssets embed.FS

const workerScript = "assets/faster_whisper_worker.py"

// ErrWorkerExited 表示 worker 进程已退出
var ErrWorkerExited = errors.New("识别 worker 已退出")

// WorkerConfig 是 faster-whisper worker 的启动参数
type WorkerConfig struct {
	PythonBin    string
	ModelPath    string
	Device       string
	ComputeType  string
	StartTimeout time.Duration // 等待模型加载完成的最长时间
	// Command 非空时直接作为 worker 命令，忽略以上参数（测试用）
	Command []string
}

// FasterWhisper 通过常驻的 Python worker 调用 faster-whisper
// 模型在启动时加载一次，所有请求经互斥锁串行发送给同一个 worker。
type FasterWhisper struct {
	mu         sync.Mutex
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	stderr     *tailBuffer
	scriptPath string
	closed     bool
}

type workerRequest struct {
	Audio string `json:"audio"`
	DecodeOptions
}

type workerResponse struct {
	Ready    bool                       `json:"ready"`
	Language string                     `json:"language"`
	Segments []models.TranscriptSegment `json:"segments"`
	Error    string                     `json:"error"`
}

// NewFasterWhisper 启动 worker 并等待模型加载完成
func NewFasterWhisper(cfg WorkerConfig) (*FasterWhisper, error) {
	fw := &FasterWhisper{stderr: newTailBuffer(4096)}

	args := cfg.Command
	if len(args) == 0 {
		scriptPath, err := writeWorkerScript()
		if err != nil {
			return nil, err
		}
		fw.scriptPath = scriptPath
		python := cfg.PythonBin
		if python == "" {
			python = "python3"
		}
		args = []string{python, scriptPath, "--model", cfg.ModelPath, "--device", cfg.Device, "--compute-type", cfg.ComputeType}
	}

	fw.cmd = exec.Command(args[0], args[1:]...)
	fw.cmd.Env = os.Environ()
	fw.cmd.Stderr = fw.stderr

	stdin, err := fw.cmd.StdinPipe()
	if err != nil {
		fw.cleanup()
		return nil, fmt.Errorf("创建 worker stdin 失败: %w", err)
	}
	stdout, err := fw.cmd.StdoutPipe()
	if err != nil {
		fw.cleanup()
		return nil, fmt.Errorf("创建 worker stdout 失败: %w", err)
	}
	fw.stdin = stdin
	fw.stdout = bufio.NewReaderSize(stdout, 64*1024)

	if err := fw.cmd.Start(); err != nil {
		fw.cleanup()
		return nil, fmt.Errorf("启动 worker 失败: %w", err)
	}
	utils.Info("已启动 faster-whisper worker (pid %d)，正在加载模型 %s", fw.cmd.Process.Pid, cfg.ModelPath)

	timeout := cfg.StartTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	if err := fw.waitReady(timeout); err != nil {
		fw.Close()
		return nil, err
	}
	utils.Info("模型加载完成")
	return fw, nil
}

func writeWorkerScript() (string, error) {
	script, err := workerAssets.ReadFile(workerScript)
	if err != nil {
		return "", fmt.Errorf("读取内嵌 worker 脚本失败: %w", err)
	}
	f, err := os.CreateTemp("", "faster_whisper_worker-*.py")
	if err != nil {
		return "", fmt.Errorf("写入 worker 脚本失败: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(script); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("写入 worker 脚本失败: %w", err)
	}
	return f.Name(), nil
}

func (fw *FasterWhisper) waitReady(timeout time.Duration) error {
	type result struct {
		resp workerResponse
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := fw.readResponse()
		ch <- result{resp, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return r.err
		}
		if r.resp.Error != "" {
			return fmt.Errorf("加载模型失败: %s", r.resp.Error)
		}
		if !r.resp.Ready {
			return fmt.Errorf("worker 握手失败")
		}
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("等待模型加载超时 (%s)", timeout)
	}
}

func (fw *FasterWhisper) readResponse() (workerResponse, error) {
	var resp workerResponse
	line, err := fw.stdout.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return resp, fmt.Errorf("%w: %s", ErrWorkerExited, strings.TrimSpace(fw.stderr.String()))
		}
		return resp, fmt.Errorf("读取 worker 输出失败: %w", err)
	}
	if err := json.Unmarshal(line, &resp); err != nil {
		return resp, fmt.Errorf("解析 worker 输出失败: %w", err)
	}
	return resp, nil
}

// Name 返回后端名称
func (fw *FasterWhisper) Name() string {
	return models.BackendFasterWhisper
}

// Transcribe 将请求发送给 worker 并等待结果，同一时间只处理一个请求
func (fw *FasterWhisper) Transcribe(ctx context.Context, audioPath string, opts DecodeOptions) (*models.Transcription, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return nil, ErrWorkerExited
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := json.Marshal(workerRequest{Audio: audioPath, DecodeOptions: opts})
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}
	if _, err := fw.stdin.Write(append(req, '\n')); err != nil {
		fw.abort()
		return nil, fmt.Errorf("发送请求到 worker 失败: %w", err)
	}

	start := time.Now()
	resp, err := fw.readResponse()
	if err != nil {
		// 输出流已不可信，后续请求可能读到本次的响应
		fw.abort()
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("faster-whisper 识别失败: %s", resp.Error)
	}

	utils.Debug("识别完成 %s: %d 段, 耗时 %s", audioPath, len(resp.Segments), utils.FormatTimeDuration(time.Since(start).Seconds()))
	segments := resp.Segments
	if segments == nil {
		segments = []models.TranscriptSegment{}
	}
	return &models.Transcription{LanguageDetected: resp.Language, Segments: segments}, nil
}

// Alive 报告 worker 是否仍可接收请求
func (fw *FasterWhisper) Alive() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return !fw.closed
}

// abort 在通信失败后终止 worker，调用方需持有 fw.mu
func (fw *FasterWhisper) abort() {
	if fw.closed {
		return
	}
	fw.closed = true
	utils.Error("worker 通信失败，已停止 worker: %s", strings.TrimSpace(fw.stderr.String()))
	if fw.stdin != nil {
		fw.stdin.Close()
	}
	if fw.cmd != nil && fw.cmd.Process != nil {
		fw.cmd.Process.Kill()
		go fw.cmd.Wait()
	}
	fw.cleanup()
}

// Close 关闭 worker 并删除临时脚本
func (fw *FasterWhisper) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return nil
	}
	fw.closed = true

	var err error
	if fw.stdin != nil {
		fw.stdin.Close()
	}
	if fw.cmd != nil && fw.cmd.Process != nil {
		done := make(chan error, 1)
		go func() { done <- fw.cmd.Wait() }()
		select {
		case err = <-done:
		case <-time.After(5 * time.Second):
			fw.cmd.Process.Kill()
			err = <-done
		}
	}
	fw.cleanup()
	return err
}

func (fw *FasterWhisper) cleanup() {
	if fw.scriptPath != "" {
		os.Remove(fw.scriptPath)
		fw.scriptPath = ""
	}
}

// tailBuffer 只保留最后 limit 个字节，用于在 worker 失败时报告 stderr
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
