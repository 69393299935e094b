package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
)

func TestWordMistakesPositional(t *testing.T) {
	c := WordMistakes([]string{"Le chat noir"}, []string{"le chat blanc"}, AlignPositional)
	assert.Equal(t, 1, c.Total())
	assert.Equal(t, 1, c.Count("noir"))
}

func TestInsertionShiftsPositionalComparison(t *testing.T) {
	refs := []string{"a b c"}
	hyps := []string{"x a b c"}

	positional := WordMistakes(refs, hyps, AlignPositional)
	assert.Equal(t, 3, positional.Total())

	aligned := WordMistakes(refs, hyps, AlignLevenshtein)
	assert.Equal(t, 0, aligned.Total())

	// 删除在编辑距离对齐中计入
	aligned = WordMistakes([]string{"a b c"}, []string{"a c"}, AlignLevenshtein)
	assert.Equal(t, 1, aligned.Count("b"))
}

func TestCharMistakesIgnoreSpaces(t *testing.T) {
	c := CharMistakes([]string{"ab c"}, []string{"a xc"}, AlignPositional)
	assert.Equal(t, 1, c.Total())
	assert.Equal(t, 1, c.Count("b"))
}

func TestAnalyzeTranscriptionErrorsSkipsMissingModel(t *testing.T) {
	table := benchmark.NewTable([]benchmark.FlatRow{
		{"raw_text": "le chat noir", "m1_transcription": "le chat blanc"},
		{"raw_text": "il fait beau", "m1_transcription": "il fait beau"},
	})

	var reports []ModelErrorReport
	assert.NotPanics(t, func() {
		reports = AnalyzeTranscriptionErrors(table, "raw_text", ErrorAnalysisOptions{Models: []string{"absent", "m1"}})
	})
	require.Len(t, reports, 1)
	assert.Equal(t, "m1", reports[0].Model)
	assert.Equal(t, []TokenCount{{Token: "noir", Count: 1}}, reports[0].Words.Top)
	assert.Equal(t, 0, reports[0].Words.Other)
	// noir vs blanc: n-b, o-l, i-a, r-n
	assert.Equal(t, 4, reports[0].Chars.Total)

	assert.Empty(t, AnalyzeTranscriptionErrors(table, "raw_text", ErrorAnalysisOptions{Models: []string{"absent"}}))
	assert.Empty(t, AnalyzeTranscriptionErrors(table, "texte", ErrorAnalysisOptions{}))
}

func TestAnalyzeTranscriptionErrorsDefaultModels(t *testing.T) {
	table := benchmark.NewTable([]benchmark.FlatRow{
		{"raw_text": "bonjour", "whisper_large_cpu_transcription": "bonjour"},
	})
	reports := AnalyzeTranscriptionErrors(table, "raw_text", ErrorAnalysisOptions{})
	require.Len(t, reports, 1)
	assert.Equal(t, "whisper_large_cpu", reports[0].Model)
	assert.True(t, reports[0].Words.Empty())
	assert.True(t, reports[0].Chars.Empty())
	assert.Equal(t, "whisper_large_cpu - Top 10 mots mal transcrits", reports[0].Words.Title)

	reports = AnalyzeTranscriptionErrors(table, "raw_text", ErrorAnalysisOptions{TopN: 3})
	require.Len(t, reports, 1)
	assert.Equal(t, "whisper_large_cpu - Top 3 mots mal transcrits", reports[0].Words.Title)
	assert.Equal(t, "whisper_large_cpu - Top 3 caractères mal transcrits", reports[0].Chars.Title)
}

func TestParseAlignmentMode(t *testing.T) {
	mode, err := ParseAlignmentMode("")
	require.NoError(t, err)
	assert.Equal(t, AlignPositional, mode)

	mode, err = ParseAlignmentMode("Levenshtein")
	require.NoError(t, err)
	assert.Equal(t, AlignLevenshtein, mode)

	_, err = ParseAlignmentMode("dtw")
	assert.Error(t, err)
}
