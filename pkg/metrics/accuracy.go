package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// TranscriptionSuffix 是识别结果列的后缀
const TranscriptionSuffix = "_transcription"

// DefaultReferenceColumn 是参考文本列的默认名称
const DefaultReferenceColumn = "raw_text"

// ErrColumnNotFound 表示表中缺少需要的列
var ErrColumnNotFound = errors.New("列不存在")

// AccuracyRow 是一个模型的准确率指标
// 比率为逐样本算术平均，计数为求和。
type AccuracyRow struct {
	Model          string  `json:"model"`
	WER            float64 `json:"WER"`
	CER            float64 `json:"CER"`
	MER            float64 `json:"MER"`
	WIL            float64 `json:"WIL"`
	WIP            float64 `json:"WIP"`
	Substitutions  int     `json:"Substitutions"`
	Insertions     int     `json:"Insertions"`
	Deletions      int     `json:"Deletions"`
	Hits           int     `json:"Hits"`
	TotalRefWords  int     `json:"Total_Ref_Words"`
	Samples        int     `json:"samples"`
	SkippedSamples int     `json:"skipped_samples"`
}

// SampleScore 是单个样本的指标
type SampleScore struct {
	WER, CER, MER, WIL, WIP float64
	Words                   Measures
}

// ScoreSample 归一化后计算一个样本的全部指标
// 参考文本为空时返回 ErrEmptyReference。
func ScoreSample(reference, hypothesis string) (SampleScore, error) {
	reference, hypothesis = Normalize(reference), Normalize(hypothesis)

	words := Compare(Words(reference), Words(hypothesis))
	wer, err := words.ErrorRate()
	if err != nil {
		return SampleScore{}, err
	}
	cer, err := CER(reference, hypothesis)
	if err != nil {
		return SampleScore{}, err
	}
	return SampleScore{
		WER:   wer,
		CER:   cer,
		MER:   words.MER(),
		WIL:   words.WIL(),
		WIP:   words.WIP(),
		Words: words,
	}, nil
}

// TranscriptionColumns 返回所有 *_transcription 列
func TranscriptionColumns(table *benchmark.Table) []string {
	var cols []string
	for _, col := range table.Columns {
		if strings.HasSuffix(col, TranscriptionSuffix) {
			cols = append(cols, col)
		}
	}
	return cols
}

// ComputeTranscriptionMetrics 对每个识别结果列计算准确率，按 WER 升序排列
// 参考文本为空的样本被跳过并计入 SkippedSamples；没有可评分样本的模型不产生行。
func ComputeTranscriptionMetrics(table *benchmark.Table, refCol string) ([]AccuracyRow, error) {
	if !table.HasColumn(refCol) {
		return nil, fmt.Errorf("参考列 %s: %w", refCol, ErrColumnNotFound)
	}

	references := table.Strings(refCol)
	var rows []AccuracyRow

	for _, col := range TranscriptionColumns(table) {
		model := strings.TrimSuffix(col, TranscriptionSuffix)
		hypotheses := table.Strings(col)

		var wers, cers, mers, wils, wips []float64
		row := AccuracyRow{Model: model}

		for i := range references {
			score, err := ScoreSample(references[i], hypotheses[i])
			if err != nil {
				row.SkippedSamples++
				utils.WithFields(logrus.Fields{
					"model":  model,
					"sample": benchmark.CellString(table.Rows[i][benchmark.AudioFileColumn]),
				}).Warnf("跳过样本: %v", err)
				continue
			}
			wers = append(wers, score.WER)
			cers = append(cers, score.CER)
			mers = append(mers, score.MER)
			wils = append(wils, score.WIL)
			wips = append(wips, score.WIP)

			row.Substitutions += score.Words.Substitutions
			row.Insertions += score.Words.Insertions
			row.Deletions += score.Words.Deletions
			row.Hits += score.Words.Hits
			row.TotalRefWords += score.Words.RefLen
		}

		row.Samples = len(wers)
		if row.Samples == 0 {
			utils.Warn("模型 %s 没有可评分的样本，已忽略", model)
			continue
		}
		row.WER = stat.Mean(wers, nil)
		row.CER = stat.Mean(cers, nil)
		row.MER = stat.Mean(mers, nil)
		row.WIL = stat.Mean(wils, nil)
		row.WIP = stat.Mean(wips, nil)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WER != rows[j].WER {
			return rows[i].WER < rows[j].WER
		}
		return rows[i].Model < rows[j].Model
	})
	return rows, nil
}
