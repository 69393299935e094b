package benchmark

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// 列名后缀，用于从展平的表中发现模型
const (
	SuffixInferenceTime  = "_inference_time_s"
	SuffixElapsedTime    = "_elapsed_time_s"
	SuffixRealTimeFactor = "_real_time_factor"

	// DurationColumn 是所有模型共享的音频时长列
	DurationColumn = "duration_s"
)

var modelSuffixes = []string{SuffixInferenceTime, SuffixElapsedTime, SuffixRealTimeFactor}

// ModelSummary 是一个模型的耗时统计，缺失的列对应字段为 nil
type ModelSummary struct {
	Model              string   `json:"model"`
	SumDuration        *float64 `json:"sum_duration_s,omitempty"`
	MeanDuration       *float64 `json:"mean_duration_s,omitempty"`
	SumInferenceTime   *float64 `json:"sum_inference_time_s,omitempty"`
	MeanInferenceTime  *float64 `json:"mean_inference_time_s,omitempty"`
	SumElapsedTime     *float64 `json:"sum_elapsed_time_s,omitempty"`
	MeanElapsedTime    *float64 `json:"mean_elapsed_time_s,omitempty"`
	MeanRealTimeFactor *float64 `json:"mean_real_time_factor,omitempty"`
}

// DiscoverModels 通过列名后缀发现模型名称，结果已排序
func DiscoverModels(table *Table) []string {
	set := make(map[string]bool)
	for _, col := range table.Columns {
		for _, suffix := range modelSuffixes {
			if strings.HasSuffix(col, suffix) {
				if model := strings.TrimSuffix(col, suffix); model != "" {
					set[model] = true
				}
				break
			}
		}
	}

	models := make([]string, 0, len(set))
	for m := range set {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// Summarize 按模型汇总耗时指标，按 sum_elapsed_time_s 降序排列
// 没有该列的模型排在最后，同值或同为缺失时按模型名升序。
func Summarize(table *Table) []ModelSummary {
	models := DiscoverModels(table)
	summaries := make([]ModelSummary, 0, len(models))

	var sumDuration, meanDuration *float64
	if table.HasColumn(DurationColumn) {
		sumDuration, meanDuration = sumAndMean(table.Floats(DurationColumn))
	}

	for _, model := range models {
		row := ModelSummary{
			Model:        model,
			SumDuration:  sumDuration,
			MeanDuration: meanDuration,
		}
		if col := model + SuffixInferenceTime; table.HasColumn(col) {
			row.SumInferenceTime, row.MeanInferenceTime = sumAndMean(table.Floats(col))
		}
		if col := model + SuffixElapsedTime; table.HasColumn(col) {
			row.SumElapsedTime, row.MeanElapsedTime = sumAndMean(table.Floats(col))
		}
		if col := model + SuffixRealTimeFactor; table.HasColumn(col) {
			_, row.MeanRealTimeFactor = sumAndMean(table.Floats(col))
		}
		summaries = append(summaries, row)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].SumElapsedTime, summaries[j].SumElapsedTime
		switch {
		case a != nil && b != nil && *a != *b:
			return *a > *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return summaries[i].Model < summaries[j].Model
	})
	return summaries
}

// sumAndMean 空列的和为 0，均值为 nil
func sumAndMean(values []float64) (*float64, *float64) {
	sum := floats.Sum(values)
	if len(values) == 0 {
		return &sum, nil
	}
	mean := stat.Mean(values, nil)
	return &sum, &mean
}
