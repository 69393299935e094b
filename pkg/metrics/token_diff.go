package metrics

import (
	"fmt"
	"strings"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// AlignmentMode 决定如何配对参考词元与识别词元
type AlignmentMode string

const (
	// AlignPositional 按位置逐一比较，截断到较短序列的长度
	// 一次插入或删除会使之后的位置全部错位。
	AlignPositional AlignmentMode = "positional"
	// AlignLevenshtein 使用与准确率指标相同的编辑距离对齐
	AlignLevenshtein AlignmentMode = "levenshtein"
)

// ParseAlignmentMode 解析命令行中的对齐方式
func ParseAlignmentMode(s string) (AlignmentMode, error) {
	switch AlignmentMode(strings.ToLower(s)) {
	case AlignPositional, "":
		return AlignPositional, nil
	case AlignLevenshtein:
		return AlignLevenshtein, nil
	}
	return "", fmt.Errorf("未知的对齐方式: %s", s)
}

// DefaultModels 是基准测试中比较的六个模型
var DefaultModels = []string{
	"whisper_large_cpu",
	"whisper_large_distilled_cpu",
	"whisper_large_distilled_ct2_cpu",
	"whisper_large_gpu",
	"whisper_large_distilled_gpu",
	"whisper_large_distilled_ct2_gpu",
}

// ErrorAnalysisOptions 控制错误分析
type ErrorAnalysisOptions struct {
	Models    []string      // 为 nil 时使用 DefaultModels，空切片表示不分析任何模型
	TopN      int           // <= 0 时为 10
	Alignment AlignmentMode // 为空时按位置
}

// ModelErrorReport 是一个模型的错误词和错误字符分布
type ModelErrorReport struct {
	Model string    `json:"model"`
	Words Breakdown `json:"words"`
	Chars Breakdown `json:"chars"`
}

// WordMistakes 统计被转写错误的参考词
func WordMistakes(references, hypotheses []string, mode AlignmentMode) *Counter {
	counter := NewCounter()
	for i := range references {
		if i >= len(hypotheses) {
			break
		}
		ref := Words(strings.ToLower(references[i]))
		hyp := Words(strings.ToLower(hypotheses[i]))
		collectMistakes(counter, ref, hyp, mode)
	}
	return counter
}

// CharMistakes 统计被转写错误的参考字符（去除空格后比较）
func CharMistakes(references, hypotheses []string, mode AlignmentMode) *Counter {
	counter := NewCounter()
	for i := range references {
		if i >= len(hypotheses) {
			break
		}
		ref := Chars(strings.ReplaceAll(strings.ToLower(references[i]), " ", ""))
		hyp := Chars(strings.ReplaceAll(strings.ToLower(hypotheses[i]), " ", ""))
		collectMistakes(counter, ref, hyp, mode)
	}
	return counter
}

func collectMistakes(counter *Counter, ref, hyp []string, mode AlignmentMode) {
	if mode == AlignLevenshtein {
		for _, step := range Align(ref, hyp) {
			if step.Op == OpSubstitute || step.Op == OpDelete {
				counter.Add(step.Ref)
			}
		}
		return
	}

	n := min(len(ref), len(hyp))
	for i := 0; i < n; i++ {
		if ref[i] != hyp[i] {
			counter.Add(ref[i])
		}
	}
}

// AnalyzeTranscriptionErrors 对每个模型统计错误最多的词和字符
// 缺少 {model}_transcription 列的模型打印提示后跳过，不会返回错误。
func AnalyzeTranscriptionErrors(table *benchmark.Table, refCol string, opts ErrorAnalysisOptions) []ModelErrorReport {
	models := opts.Models
	if models == nil {
		models = DefaultModels
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = 10
	}
	mode := opts.Alignment
	if mode == "" {
		mode = AlignPositional
	}

	if !table.HasColumn(refCol) {
		utils.Warn("[!] 参考列 %s 不存在，无法分析错误", refCol)
		return nil
	}
	references := table.Strings(refCol)

	var reports []ModelErrorReport
	for _, model := range models {
		hypCol := model + TranscriptionSuffix
		if !table.HasColumn(hypCol) {
			utils.Warn("[!] 列 %s 不存在，已忽略", hypCol)
			continue
		}
		hypotheses := table.Strings(hypCol)

		report := ModelErrorReport{
			Model: model,
			Words: NewBreakdown(fmt.Sprintf("%s - Top %d mots mal transcrits", model, topN), WordMistakes(references, hypotheses, mode), topN),
			Chars: NewBreakdown(fmt.Sprintf("%s - Top %d caractères mal transcrits", model, topN), CharMistakes(references, hypotheses, mode), topN),
		}
		if report.Words.Empty() {
			utils.Info("[!] 未发现差异: %s", report.Words.Title)
		}
		if report.Chars.Empty() {
			utils.Info("[!] 未发现差异: %s", report.Chars.Title)
		}
		reports = append(reports, report)
	}
	return reports
}
