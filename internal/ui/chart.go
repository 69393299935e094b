package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Bar 是条形图中的一项
type Bar struct {
	Label string
	Value float64
}

// BarChart 在终端中绘制水平条形图
type BarChart struct {
	Title    string
	Width    int    // 最长条的字符数
	Format   string // 数值格式，默认 "%.3f"
	FillChar string
}

// NewBarChart 创建条形图
func NewBarChart(title string) *BarChart {
	return &BarChart{Title: title, Width: 40, Format: "%.3f", FillChar: "█"}
}

// Render 按给定顺序绘制所有条目，条长按最大值缩放
func (c *BarChart) Render(w io.Writer, bars []Bar) {
	color.New(color.FgHiWhite, color.Bold).Fprintln(w, c.Title)
	if len(bars) == 0 {
		color.New(color.FgYellow).Fprintln(w, "  (aucune donnée)")
		return
	}

	labelWidth := 0
	maxValue := 0.0
	for _, b := range bars {
		if n := utf8.RuneCountInString(b.Label); n > labelWidth {
			labelWidth = n
		}
		if b.Value > maxValue {
			maxValue = b.Value
		}
	}

	for _, b := range bars {
		length := 0
		if maxValue > 0 && b.Value > 0 {
			length = int(b.Value / maxValue * float64(c.Width))
			if length == 0 {
				length = 1
			}
		}
		padding := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(b.Label))
		fmt.Fprintf(w, "  %s%s │%s %s\n",
			b.Label, padding,
			color.CyanString(strings.Repeat(c.FillChar, length)),
			fmt.Sprintf(c.Format, b.Value))
	}
}

// RenderTable 以对齐的列打印表格，表头下方加分隔线
func RenderTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	rules := make([]string, len(headers))
	for i, h := range headers {
		rules[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Section 打印带颜色的小节标题
func Section(w io.Writer, title string) {
	fmt.Fprintln(w)
	color.New(color.FgGreen, color.Bold).Fprintf(w, "== %s ==\n", title)
}
