package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/internal/demo"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/internal/watcher"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

var (
	configFile = flag.String("config", "", "配置文件路径")
	listenAddr = flag.String("listen", "", "监听地址，覆盖配置文件")
	serviceURL = flag.String("service", "", "转写服务地址，覆盖配置文件")
	noWatch    = flag.Bool("no-watch", false, "不监听样本目录变化")
	logLevel   = flag.String("log-level", "", "日志级别 (VERBOSE, INFO, WARN)")
	logFile    = flag.String("log-file", "", "日志文件路径")
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

	printWelcome(config)

	var sets []*demo.SampleSet
	for _, setConfig := range config.SampleSets {
		set, err := demo.NewSampleSet(setConfig)
		if err != nil {
			utils.Fatal("加载样本集 %s 失败: %v", setConfig.Name, err)
		}
		utils.Info("样本集 %s: %d 个样本", set.Name(), len(set.Files()))
		sets = append(sets, set)

		if config.WatchSamples {
			stopWatch, err := set.Watch(watcher.DefaultDebounce)
			if err != nil {
				utils.Warn("无法监控样本目录 %s: %v", setConfig.Dir, err)
				continue
			}
			defer stopWatch()
		}
	}

	app, err := demo.NewApp(config, demo.NewClient(config.ServiceURL), sets)
	if err != nil {
		utils.Fatal("初始化界面失败: %v", err)
	}

	httpServer := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.Info("演示界面启动在 %s，转写服务: %s", config.ListenAddr, config.ServiceURL)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("服务器启动失败: %v", err)
		}
	case <-ctx.Done():
		utils.Info("收到退出信号，正在关闭...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			utils.Error("关闭服务失败: %v", err)
		}
	}
}

// loadConfig 读取默认配置、配置文件，再应用命令行参数
func loadConfig() (*models.DemoConfig, error) {
	config := models.NewDefaultDemoConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			config.ListenAddr = *listenAddr
		case "service":
			config.ServiceURL = *serviceURL
		case "no-watch":
			config.WatchSamples = !*noWatch
		case "log-level":
			config.LogLevel = *logLevel
		case "log-file":
			config.LogFile = *logFile
		}
	})

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func printWelcome(config *models.DemoConfig) {
	title := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	title.Println("================================")
	title.Println("   Démo transcription audio FR   ")
	title.Println("================================")
	fmt.Printf("界面: http://localhost%s\n", config.ListenAddr)
	fmt.Println()
}
