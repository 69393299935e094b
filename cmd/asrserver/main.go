package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/internal/server"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/asr"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

var (
	configFile  = flag.String("config", "", "配置文件路径")
	listenAddr  = flag.String("listen", "", "监听地址，覆盖配置文件")
	modelPath   = flag.String("model", "", "CTranslate2 模型目录，覆盖配置文件")
	device      = flag.String("device", "", "推理设备 (cpu, cuda, auto)")
	computeType = flag.String("compute-type", "", "计算精度 (int8, float16, ...)")
	pythonBin   = flag.String("python", "", "运行 faster-whisper 的 Python 解释器")
	tempDir     = flag.String("temp", "", "上传文件的临时目录")
	logLevel    = flag.String("log-level", "", "日志级别 (VERBOSE, INFO, WARN)")
	logFile     = flag.String("log-file", "", "日志文件路径")
	saveConfig  = flag.String("save-config", "", "将最终配置保存到该路径后退出")
)

func main() {
	flag.Parse()

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	if err := utils.InitLogger(config.LogLevel, config.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if *saveConfig != "" {
		if err := config.SaveToFile(*saveConfig); err != nil {
			utils.Fatal("保存配置失败: %v", err)
		}
		utils.Info("配置已保存到: %s", *saveConfig)
		return
	}

	printWelcome(config)

	if !checkDependencies(config) {
		utils.Fatal("缺少必要的依赖项，无法继续")
	}

	utils.Info("加载识别模型: %s (%s, %s)", config.ModelPath, config.Device, config.ComputeType)
	start := time.Now()
	recognizer, err := asr.New(config)
	if err != nil {
		utils.Fatal("初始化识别后端失败: %v", err)
	}
	defer recognizer.Close()
	utils.Info("模型加载完成，耗时 %s", utils.FormatTimeDuration(time.Since(start).Seconds()))

	srv := server.New(config, recognizer)
	httpServer := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.Info("转写服务启动在 %s", config.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("服务器启动失败: %v", err)
		}
	case <-ctx.Done():
		utils.Info("收到退出信号，正在关闭服务...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			utils.Error("关闭服务失败: %v", err)
		}
	}

	srv.ErrorStats().PrintErrorStats()
}

// loadConfig 读取默认配置、配置文件，再应用命令行参数
func loadConfig() (*models.ServerConfig, error) {
	config := models.NewDefaultServerConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			return nil, err
		}
	}

	overrides := map[string]func(){
		"listen":       func() { config.ListenAddr = *listenAddr },
		"model":        func() { config.ModelPath = *modelPath },
		"device":       func() { config.Device = *device },
		"compute-type": func() { config.ComputeType = *computeType },
		"python":       func() { config.PythonBin = *pythonBin },
		"temp":         func() { config.TempDir = *tempDir },
		"log-level":    func() { config.LogLevel = *logLevel },
		"log-file":     func() { config.LogFile = *logFile },
	}
	flag.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func printWelcome(config *models.ServerConfig) {
	title := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	title.Println("================================")
	title.Println("   法语语音转写服务 (faster-whisper)   ")
	title.Println("================================")
	fmt.Printf("后端: %s | 语言: %s | beam: %d\n", config.Backend, config.Language, config.BeamSize)
	fmt.Println()
}

func checkDependencies(config *models.ServerConfig) bool {
	fmt.Print("检查系统依赖... ")

	if _, err := exec.LookPath(config.PythonBin); err != nil {
		color.Red("失败")
		utils.Error("未找到 Python 解释器 %s，请确认已安装 faster-whisper", config.PythonBin)
		return false
	}
	if !utils.CheckDirExists(config.ModelPath) {
		color.Red("失败")
		utils.Error("模型目录不存在: %s", config.ModelPath)
		return false
	}

	color.Green("通过")
	return true
}
