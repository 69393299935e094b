package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/metrics"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// Report 汇总一次基准分析的全部结果
type Report struct {
	Source      string                     `json:"source"`
	GeneratedAt string                     `json:"generated_at"`
	Samples     int                        `json:"samples"`
	Summary     []benchmark.ModelSummary   `json:"summary"`
	Accuracy    []metrics.AccuracyRow      `json:"accuracy"`
	Errors      []metrics.ModelErrorReport `json:"errors"`
	Text        *metrics.TextStats         `json:"text,omitempty"`
}

// ReportExporter 负责将分析报告导出为JSON与Markdown
type ReportExporter struct {
	OutputFolder string
}

// NewReportExporter 创建一个新的报告导出器
func NewReportExporter(outputFolder string) *ReportExporter {
	return &ReportExporter{OutputFolder: outputFolder}
}

// Export 写出 <name>.json 和 <name>.md，返回两个路径
func (e *ReportExporter) Export(report *Report, name string) ([]string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	jsonPath := filepath.Join(e.OutputFolder, name+".json")
	if err := utils.SaveJSONFile(jsonPath, report); err != nil {
		return nil, fmt.Errorf("写入报告JSON失败: %w", err)
	}

	mdPath := filepath.Join(e.OutputFolder, name+".md")
	if err := os.WriteFile(mdPath, []byte(GenerateMarkdown(report)), 0644); err != nil {
		return nil, fmt.Errorf("写入报告Markdown失败: %w", err)
	}

	utils.Info("已导出报告: %s, %s", jsonPath, mdPath)
	return []string{jsonPath, mdPath}, nil
}

// GenerateMarkdown 生成Markdown格式的报告
func GenerateMarkdown(report *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Benchmark ASR : %s\n\n", report.Source)
	if report.GeneratedAt != "" {
		fmt.Fprintf(&b, "Généré le %s, %d fichiers audio.\n\n", report.GeneratedAt, report.Samples)
	}

	if len(report.Summary) > 0 {
		b.WriteString("## Temps d'inférence\n\n")
		b.WriteString("| Modèle | Σ inférence (s) | Moy. inférence (s) | Σ écoulé (s) | Moy. écoulé (s) | RTF moyen |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, s := range report.Summary {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				s.Model, utils.FormatOptional(s.SumInferenceTime), utils.FormatOptional(s.MeanInferenceTime),
				utils.FormatOptional(s.SumElapsedTime), utils.FormatOptional(s.MeanElapsedTime), utils.FormatOptional(s.MeanRealTimeFactor))
		}
		if d := report.Summary[0].SumDuration; d != nil {
			fmt.Fprintf(&b, "\nDurée audio totale : %s s\n", utils.FormatOptional(d))
		}
		b.WriteString("\n")
	}

	if len(report.Accuracy) > 0 {
		b.WriteString("## Précision de transcription\n\n")
		b.WriteString("| Modèle | WER | CER | MER | WIL | WIP | S | I | D | H | Mots réf. |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|---|---|---|\n")
		for _, r := range report.Accuracy {
			fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.4f | %.4f | %d | %d | %d | %d | %d |\n",
				r.Model, r.WER, r.CER, r.MER, r.WIL, r.WIP,
				r.Substitutions, r.Insertions, r.Deletions, r.Hits, r.TotalRefWords)
		}
		b.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		b.WriteString("## Erreurs fréquentes\n\n")
		for _, r := range report.Errors {
			writeBreakdown(&b, r.Words)
			writeBreakdown(&b, r.Chars)
		}
	}

	if report.Text != nil {
		fmt.Fprintf(&b, "## Statistiques du texte (%s)\n\n", report.Text.Column)
		fmt.Fprintf(&b, "Mots distincts : %d, caractères distincts : %d\n\n", report.Text.DistinctWords, report.Text.DistinctChars)
		writeBreakdown(&b, report.Text.Words)
		writeBreakdown(&b, report.Text.Chars)
	}

	return b.String()
}

func writeBreakdown(b *strings.Builder, bd metrics.Breakdown) {
	fmt.Fprintf(b, "### %s\n\n", bd.Title)
	if bd.Empty() {
		b.WriteString("Aucune différence détectée.\n\n")
		return
	}
	b.WriteString("| Élément | Nombre |\n|---|---|\n")
	for _, tc := range bd.Buckets() {
		fmt.Fprintf(b, "| %s | %d |\n", escapeCell(tc.Token), tc.Count)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	if s == "" {
		return "∅"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
