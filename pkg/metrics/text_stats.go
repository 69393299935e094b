package metrics

import (
	"fmt"
	"strings"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
)

// TextStats 是一列文本的词和字符频率统计
type TextStats struct {
	Column        string    `json:"column"`
	DistinctWords int       `json:"distinct_words"`
	DistinctChars int       `json:"distinct_chars"`
	Words         Breakdown `json:"words"`
	Chars         Breakdown `json:"chars"`
}

// AnalyzeText 拼接整列文本后统计词频与字符频率（字符统计去除空格）
func AnalyzeText(table *benchmark.Table, col string, topN int) (TextStats, error) {
	if !table.HasColumn(col) {
		return TextStats{}, ErrColumnNotFound
	}
	if topN <= 0 {
		topN = 10
	}

	all := strings.ToLower(strings.Join(table.Strings(col), " "))

	words := NewCounter()
	for _, w := range Words(all) {
		words.Add(w)
	}
	chars := NewCounter()
	for _, c := range Chars(strings.ReplaceAll(all, " ", "")) {
		chars.Add(c)
	}

	return TextStats{
		Column:        col,
		DistinctWords: words.Len(),
		DistinctChars: chars.Len(),
		Words:         NewBreakdown(fmt.Sprintf("Proportion des %d mots les plus fréquents", topN), words, topN),
		Chars:         NewBreakdown(fmt.Sprintf("Proportion des %d caractères les plus fréquents", topN), chars, topN),
	}, nil
}
