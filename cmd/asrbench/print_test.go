package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/metrics"
)

func init() {
	color.NoColor = true
}

func TestPrintSummary(t *testing.T) {
	elapsed, duration := 4.0, 10.0
	var buf bytes.Buffer
	printSummary(&buf, []benchmark.ModelSummary{
		{Model: "m1", SumElapsedTime: &elapsed, SumDuration: &duration, MeanDuration: &duration},
		{Model: "m2"},
	})

	out := buf.String()
	assert.Contains(t, out, "== Temps d'inférence ==")
	assert.Contains(t, out, "4.000")
	assert.Contains(t, out, "Durée audio totale : 10.000 s")
	assert.Contains(t, out, "Temps total écoulé par modèle (s)")
}

func TestPrintSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, nil)
	assert.Contains(t, buf.String(), "Aucun modèle trouvé")
}

func TestPrintErrors(t *testing.T) {
	words := metrics.NewCounter()
	words.Add("chat")
	words.Add("")

	var buf bytes.Buffer
	printErrors(&buf, []metrics.ModelErrorReport{{
		Model: "m1",
		Words: metrics.NewBreakdown("m1 - Top 10 mots mal transcrits", words, 10),
		Chars: metrics.NewBreakdown("m1 - Top 10 caractères mal transcrits", metrics.NewCounter(), 10),
	}})

	out := buf.String()
	assert.Contains(t, out, "m1 - Top 10 mots mal transcrits")
	assert.Contains(t, out, "chat")
	assert.Contains(t, out, "∅")
	assert.Contains(t, out, "Autres")
	assert.Contains(t, out, "m1 - Top 10 caractères mal transcrits : aucune différence détectée")
}

func TestBreakdownBars(t *testing.T) {
	c := metrics.NewCounter()
	c.Add("a")
	c.Add("a")
	c.Add("b")

	bars := breakdownBars(metrics.NewBreakdown("t", c, 1))
	assert.Len(t, bars, 2)
	assert.Equal(t, "a", bars[0].Label)
	assert.Equal(t, 2.0, bars[0].Value)
	assert.Equal(t, metrics.OtherLabel, bars[1].Label)
	assert.Equal(t, 1.0, bars[1].Value)
}
