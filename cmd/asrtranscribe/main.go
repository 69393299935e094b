package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/internal/demo"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/export"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

func main() {
	// 解析命令行参数
	audioPath := flag.String("audio", "", "音频文件路径 (wav 或 mp3)")
	service := flag.String("service", models.NewDefaultDemoConfig().ServiceURL, "转写服务地址")
	outputDir := flag.String("output", "", "导出 SRT 和 JSON 的目录，为空时只打印")
	logLevel := flag.String("log-level", utils.LogLevelNormal, "日志级别")
	logFile := flag.String("log-file", "", "日志文件路径")

	flag.Parse()

	if err := utils.InitLogger(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if *audioPath == "" {
		utils.Fatal("必须指定音频文件路径")
	}
	if !utils.CheckFileExists(*audioPath) {
		utils.Fatal("音频文件不存在: %s", *audioPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	utils.Info("开始识别音频文件: %s", *audioPath)
	start := time.Now()
	result, err := demo.NewClient(*service).TranscribeFile(ctx, *audioPath)
	if err != nil {
		utils.Fatal("识别失败: %v", err)
	}
	utils.Info("识别完成，耗时 %s，语言: %s", utils.FormatTimeDuration(time.Since(start).Seconds()), result.LanguageDetected)

	if len(result.Segments) == 0 {
		color.Yellow("未识别出任何内容")
		return
	}

	for _, line := range demo.SegmentLines(result.Segments) {
		fmt.Println(line)
	}

	if *outputDir == "" {
		return
	}
	srtPath, err := export.NewSRTExporter(*outputDir).ExportSRT(result, *audioPath)
	if err != nil {
		utils.Fatal("导出SRT失败: %v", err)
	}
	jsonPath, err := export.NewJSONExporter(*outputDir).ExportJSON(result, *audioPath)
	if err != nil {
		utils.Fatal("导出JSON失败: %v", err)
	}
	color.Green("已导出: %s, %s", srtPath, jsonPath)
}
