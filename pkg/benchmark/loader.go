package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

// ErrMissingData 表示基准文档缺少顶层 data 字段
var ErrMissingData = errors.New("基准文档缺少 data 字段")

type benchmarkDocument struct {
	Data map[string]BenchmarkRecord `json:"data"`
}

// LoadFile 加载基准测试 JSON 文件并展平为表
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开基准文件失败: %w", err)
	}
	defer f.Close()

	table, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("加载 %s 失败: %w", path, err)
	}
	utils.Info("已加载基准文件 %s: %d 个音频, %d 列", path, table.Len(), len(table.Columns))
	return table, nil
}

// Load 解析 {"data": {音频: {指标: 标量 | {子指标: 标量}}}} 并展平
func Load(r io.Reader) (*Table, error) {
	var doc benchmarkDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("解析JSON失败: %w", err)
	}
	if doc.Data == nil {
		return nil, ErrMissingData
	}

	audioFiles := make([]string, 0, len(doc.Data))
	for name := range doc.Data {
		audioFiles = append(audioFiles, name)
	}
	sort.Strings(audioFiles)

	groupSet := make(map[string]bool)
	rows := make([]FlatRow, 0, len(audioFiles))
	layouts := make([]RowLayout, 0, len(audioFiles))
	for _, name := range audioFiles {
		row, layout := Flatten(name, doc.Data[name])
		rows = append(rows, row)
		layouts = append(layouts, layout)
		for _, g := range layout.Groups {
			groupSet[g] = true
		}
	}

	table := NewTable(rows)
	table.layouts = layouts
	for g := range groupSet {
		table.groups = append(table.groups, g)
	}
	sort.Strings(table.groups)
	return table, nil
}

// ColumnOrigin 记录展平列对应的外层键和内层键
type ColumnOrigin struct {
	Group string
	Key   string
}

// RowLayout 记录一行展平前的结构，空的嵌套分组也会保留
type RowLayout struct {
	Columns map[string]ColumnOrigin // 仅包含由嵌套展开的列
	Groups  []string                // 该行所有嵌套外层键，已排序
}

// Flatten 展平一个样本的指标，嵌套键重命名为 {外层键}_{内层键}
// 重名列不做检测，后写入者覆盖。
func Flatten(audioFile string, record BenchmarkRecord) (FlatRow, RowLayout) {
	row := FlatRow{AudioFileColumn: audioFile}
	layout := RowLayout{Columns: make(map[string]ColumnOrigin)}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		nested, ok := record[key].(map[string]interface{})
		if !ok {
			row[key] = record[key]
			continue
		}
		layout.Groups = append(layout.Groups, key)
		for subKey, subValue := range nested {
			col := key + "_" + subKey
			row[col] = subValue
			layout.Columns[col] = ColumnOrigin{Group: key, Key: subKey}
		}
	}
	return row, layout
}

// Unflatten 按 Flatten 记录的结构将行重新分组，是 Flatten 的逆操作
func Unflatten(row FlatRow, layout RowLayout) BenchmarkRecord {
	record := BenchmarkRecord{}
	for _, g := range layout.Groups {
		record[g] = make(map[string]interface{})
	}
	for col, value := range row {
		if col == AudioFileColumn {
			continue
		}
		origin, ok := layout.Columns[col]
		if !ok {
			record[col] = value
			continue
		}
		record[origin.Group].(map[string]interface{})[origin.Key] = value
	}
	return record
}
