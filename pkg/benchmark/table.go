package benchmark

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// AudioFileColumn 是每一行中保存音频文件名的列
const AudioFileColumn = "audio_file"

// BenchmarkRecord 是一个音频样本的原始指标，值为标量或 子指标 -> 标量
type BenchmarkRecord map[string]interface{}

// FlatRow 是展平后的一行，列名为 {外层键}_{内层键}
type FlatRow map[string]interface{}

// Table 是按列名访问的内存表，一行对应一个音频文件
type Table struct {
	Columns []string  // 按首次出现的顺序
	Rows    []FlatRow // 按音频文件名排序
	groups  []string  // 被展平的外层键
	layouts []RowLayout
}

// NewTable 根据行构建表，列顺序为各行中首次出现的顺序（同一行内按字母序）
func NewTable(rows []FlatRow) *Table {
	t := &Table{Rows: rows}
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
	}
	return t
}

// Len 返回行数
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn 判断列是否存在
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Groups 返回加载时被展平的外层键，已排序
func (t *Table) Groups() []string {
	out := make([]string, len(t.groups))
	copy(out, t.groups)
	return out
}

// Record 还原第 i 行展平前的指标；表不是由 Load 构建时返回 nil
func (t *Table) Record(i int) BenchmarkRecord {
	if i < 0 || i >= len(t.layouts) {
		return nil
	}
	return Unflatten(t.Rows[i], t.layouts[i])
}

// Floats 返回某列中所有数值单元格，缺失或非数值的单元格被跳过
func (t *Table) Floats(col string) []float64 {
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := ToFloat64(row[col]); ok {
			values = append(values, v)
		}
	}
	return values
}

// Strings 返回某列每一行的字符串形式，缺失单元格为空字符串
func (t *Table) Strings(col string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = CellString(row[col])
	}
	return values
}

// ToFloat64 将单元格转换为浮点数，布尔和字符串不视为数值
func ToFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// CellString 返回单元格的文本形式
func CellString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
