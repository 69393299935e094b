package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/internal/ui"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/export"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/metrics"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

var (
	benchFile = flag.String("bench", "", "基准测试结果 JSON 文件")
	refCol    = flag.String("ref-col", metrics.DefaultReferenceColumn, "参考文本列")
	textCol   = flag.String("text-col", "", "做文本统计的列，默认与参考列相同")
	modelList = flag.String("models", "", "错误分析的模型，逗号分隔；auto 表示所有 *_transcription 列")
	topN      = flag.Int("top", 10, "每个图表显示的前 N 项")
	align     = flag.String("align", string(metrics.AlignPositional), "错误分析的对齐方式 (positional, levenshtein)")
	exportDir = flag.String("export", "", "报告导出目录，为空时不导出")
	logLevel  = flag.String("log-level", utils.LogLevelNormal, "日志级别 (VERBOSE, INFO, WARN)")
	logFile   = flag.String("log-file", "", "日志文件路径")
)

const analysisSteps = 5

func main() {
	flag.Parse()

	if err := utils.InitLogger(*logLevel, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if *benchFile == "" {
		fmt.Fprintln(os.Stderr, "必须通过 -bench 指定基准测试结果文件")
		flag.Usage()
		os.Exit(2)
	}

	mode, err := metrics.ParseAlignmentMode(*align)
	if err != nil {
		utils.Fatal("%v", err)
	}

	report, err := analyze(mode)
	if err != nil {
		utils.Fatal("分析失败: %v", err)
	}

	out := color.Output
	printSummary(out, report.Summary)
	printAccuracy(out, report.Accuracy)
	printErrors(out, report.Errors)
	if report.Text != nil {
		printTextStats(out, report.Text)
	}

	if *exportDir != "" {
		name := strings.TrimSuffix(filepath.Base(*benchFile), filepath.Ext(*benchFile)) + "_report"
		paths, err := export.NewReportExporter(*exportDir).Export(report, name)
		if err != nil {
			utils.Fatal("导出报告失败: %v", err)
		}
		color.Green("\n报告已导出: %s", strings.Join(paths, ", "))
	}
}

// analyze 依次执行加载、汇总、准确率、错误分析与文本统计
func analyze(mode metrics.AlignmentMode) (*export.Report, error) {
	bar := ui.NewProgressBar(analysisSteps, "分析", "")
	bar.Out = os.Stderr

	bar.Update(0, "加载 "+filepath.Base(*benchFile))
	table, err := benchmark.LoadFile(*benchFile)
	if err != nil {
		return nil, err
	}
	report := &export.Report{
		Source:      filepath.Base(*benchFile),
		GeneratedAt: utils.GetCurrentTimeString(),
		Samples:     table.Len(),
	}

	bar.Increment("汇总推理时间")
	report.Summary = benchmark.Summarize(table)

	bar.Increment("计算准确率")
	if table.HasColumn(*refCol) {
		report.Accuracy, err = metrics.ComputeTranscriptionMetrics(table, *refCol)
		if err != nil {
			return nil, err
		}
	} else {
		utils.Warn("参考列 %s 不存在，跳过准确率计算", *refCol)
	}

	bar.Increment("分析转写错误")
	report.Errors = metrics.AnalyzeTranscriptionErrors(table, *refCol, metrics.ErrorAnalysisOptions{
		Models:    selectModels(table, *modelList),
		TopN:      *topN,
		Alignment: mode,
	})

	bar.Increment("统计文本")
	col := *textCol
	if col == "" {
		col = *refCol
	}
	if stats, err := metrics.AnalyzeText(table, col, *topN); err == nil {
		report.Text = &stats
	} else {
		utils.Warn("无法统计列 %s: %v", col, err)
	}

	bar.Complete("完成")
	return report, nil
}

// selectModels 解析 -models：空串使用默认模型，auto 选取所有转写列
func selectModels(table *benchmark.Table, list string) []string {
	switch strings.TrimSpace(list) {
	case "":
		return nil
	case "auto":
		models := []string{}
		for _, col := range metrics.TranscriptionColumns(table) {
			models = append(models, strings.TrimSuffix(col, metrics.TranscriptionSuffix))
		}
		if len(models) == 0 {
			utils.Warn("未找到任何 *%s 列，跳过错误分析", metrics.TranscriptionSuffix)
		}
		return models
	}

	models := []string{}
	for _, m := range strings.Split(list, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}
