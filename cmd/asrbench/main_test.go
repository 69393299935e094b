package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/metrics"
)

func TestSelectModels(t *testing.T) {
	table := benchmark.NewTable([]benchmark.FlatRow{
		{"raw_text": "bonjour", "m1_transcription": "bonjour", "m2_transcription": "bonsoir"},
	})

	assert.Nil(t, selectModels(table, ""))
	assert.Equal(t, []string{"m1", "m2"}, selectModels(table, "auto"))
	assert.Equal(t, []string{"a", "b"}, selectModels(table, " a, ,b "))
}

func TestSelectModelsAutoWithoutTranscriptions(t *testing.T) {
	table := benchmark.NewTable([]benchmark.FlatRow{{"raw_text": "bonjour"}})

	models := selectModels(table, "auto")
	require.NotNil(t, models)
	assert.Empty(t, models)

	// auto 找不到列时不能退回默认模型
	reports := metrics.AnalyzeTranscriptionErrors(table, "raw_text", metrics.ErrorAnalysisOptions{Models: models})
	assert.Empty(t, reports)
}
