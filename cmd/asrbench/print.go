package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/internal/ui"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/benchmark"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/metrics"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

func printSummary(w io.Writer, summary []benchmark.ModelSummary) {
	ui.Section(w, "Temps d'inférence")
	if len(summary) == 0 {
		color.New(color.FgYellow).Fprintln(w, "Aucun modèle trouvé")
		return
	}

	rows := make([][]string, 0, len(summary))
	elapsed := make([]ui.Bar, 0, len(summary))
	rtf := make([]ui.Bar, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{
			s.Model,
			utils.FormatOptional(s.SumInferenceTime), utils.FormatOptional(s.MeanInferenceTime),
			utils.FormatOptional(s.SumElapsedTime), utils.FormatOptional(s.MeanElapsedTime),
			utils.FormatOptional(s.MeanRealTimeFactor),
		})
		elapsed = append(elapsed, ui.Bar{Label: s.Model, Value: utils.ValueOrZero(s.SumElapsedTime)})
		rtf = append(rtf, ui.Bar{Label: s.Model, Value: utils.ValueOrZero(s.MeanRealTimeFactor)})
	}
	ui.RenderTable(w, []string{"model", "sum_inference_time_s", "mean_inference_time_s", "sum_elapsed_time_s", "mean_elapsed_time_s", "mean_real_time_factor"}, rows)

	if d := summary[0].SumDuration; d != nil {
		fmt.Fprintf(w, "\nDurée audio totale : %s s (moyenne %s s)\n", utils.FormatOptional(d), utils.FormatOptional(summary[0].MeanDuration))
	}

	fmt.Fprintln(w)
	ui.NewBarChart("Temps total écoulé par modèle (s)").Render(w, elapsed)
	fmt.Fprintln(w)
	ui.NewBarChart("Real-time factor moyen par modèle").Render(w, rtf)
}

func printAccuracy(w io.Writer, rows []metrics.AccuracyRow) {
	ui.Section(w, "Précision de transcription")
	if len(rows) == 0 {
		color.New(color.FgYellow).Fprintln(w, "Aucune colonne *_transcription à évaluer")
		return
	}

	table := make([][]string, 0, len(rows))
	wer := make([]ui.Bar, 0, len(rows))
	cer := make([]ui.Bar, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.Model,
			fmt.Sprintf("%.4f", r.WER), fmt.Sprintf("%.4f", r.CER), fmt.Sprintf("%.4f", r.MER),
			fmt.Sprintf("%.4f", r.WIL), fmt.Sprintf("%.4f", r.WIP),
			strconv.Itoa(r.Substitutions), strconv.Itoa(r.Insertions), strconv.Itoa(r.Deletions),
			strconv.Itoa(r.Hits), strconv.Itoa(r.TotalRefWords),
			fmt.Sprintf("%d/%d", r.Samples, r.Samples+r.SkippedSamples),
		})
		wer = append(wer, ui.Bar{Label: r.Model, Value: r.WER})
		cer = append(cer, ui.Bar{Label: r.Model, Value: r.CER})
	}
	ui.RenderTable(w, []string{"model", "WER", "CER", "MER", "WIL", "WIP", "S", "I", "D", "H", "Total_Ref_Words", "samples"}, table)

	fmt.Fprintln(w)
	ui.NewBarChart("WER par modèle").Render(w, wer)
	fmt.Fprintln(w)
	ui.NewBarChart("CER par modèle").Render(w, cer)
}

func breakdownBars(b metrics.Breakdown) []ui.Bar {
	buckets := b.Buckets()
	bars := make([]ui.Bar, len(buckets))
	for i, tc := range buckets {
		label := tc.Token
		if label == "" {
			label = "∅"
		}
		bars[i] = ui.Bar{Label: label, Value: float64(tc.Count)}
	}
	return bars
}

func printBreakdown(w io.Writer, b metrics.Breakdown) {
	fmt.Fprintln(w)
	if b.Empty() {
		color.New(color.FgYellow).Fprintf(w, "%s : aucune différence détectée\n", b.Title)
		return
	}
	chart := ui.NewBarChart(b.Title)
	chart.Format = "%.0f"
	chart.Render(w, breakdownBars(b))
}

func printErrors(w io.Writer, reports []metrics.ModelErrorReport) {
	ui.Section(w, "Erreurs fréquentes")
	if len(reports) == 0 {
		color.New(color.FgYellow).Fprintln(w, "Aucun modèle analysé")
		return
	}
	for _, r := range reports {
		printBreakdown(w, r.Words)
		printBreakdown(w, r.Chars)
	}
}

func printTextStats(w io.Writer, stats *metrics.TextStats) {
	ui.Section(w, fmt.Sprintf("Statistiques du texte (%s)", stats.Column))
	fmt.Fprintf(w, "Mots distincts : %d\nCaractères distincts : %d\n", stats.DistinctWords, stats.DistinctChars)
	printBreakdown(w, stats.Words)
	printBreakdown(w, stats.Chars)
}
