package metrics

import (
	"errors"
	"strings"
)

// ErrEmptyReference 表示归一化后的参考文本为空，错误率无定义
var ErrEmptyReference = errors.New("参考文本为空，错误率无定义")

// EditOp 是对齐中的一步操作
type EditOp int

const (
	OpEqual EditOp = iota
	OpSubstitute
	OpDelete // 参考中有、识别结果中没有
	OpInsert // 识别结果中多出的词
)

func (op EditOp) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpSubstitute:
		return "substitute"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	}
	return "unknown"
}

// AlignmentStep 对齐中的一步，删除时 Hyp 为空，插入时 Ref 为空
type AlignmentStep struct {
	Op  EditOp
	Ref string
	Hyp string
}

// Measures 是一次对齐的计数结果
type Measures struct {
	Substitutions int
	Deletions     int
	Insertions    int
	Hits          int
	RefLen        int
	HypLen        int
}

// Errors 返回 S+D+I
func (m Measures) Errors() int {
	return m.Substitutions + m.Deletions + m.Insertions
}

// ErrorRate 返回 (S+D+I)/N_ref，即 WER 或 CER
func (m Measures) ErrorRate() (float64, error) {
	if m.RefLen == 0 {
		return 0, ErrEmptyReference
	}
	return float64(m.Errors()) / float64(m.RefLen), nil
}

// MER 返回 (S+D+I)/(H+S+D+I)，两侧皆空时为 0
func (m Measures) MER() float64 {
	denom := m.Hits + m.Errors()
	if denom == 0 {
		return 0
	}
	return float64(m.Errors()) / float64(denom)
}

// WIP 返回 (H/N_ref)*(H/N_hyp)，任一侧为空时为 0
func (m Measures) WIP() float64 {
	if m.RefLen == 0 || m.HypLen == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.RefLen) * float64(m.Hits) / float64(m.HypLen)
}

// WIL 返回 1-WIP
func (m Measures) WIL() float64 {
	return 1 - m.WIP()
}

// Align 计算 ref 与 hyp 的最小编辑距离对齐
// 回溯时优先对角线（相等/替换），其次删除，最后插入。
func Align(ref, hyp []string) []AlignmentStep {
	n, m := len(ref), len(hyp)
	dist := make([][]int, n+1)
	for i := range dist {
		dist[i] = make([]int, m+1)
		dist[i][0] = i
	}
	for j := 0; j <= m; j++ {
		dist[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			dist[i][j] = min(dist[i-1][j-1]+cost, dist[i-1][j]+1, dist[i][j-1]+1)
		}
	}

	steps := make([]AlignmentStep, 0, max(n, m))
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1] && dist[i][j] == dist[i-1][j-1]:
			steps = append(steps, AlignmentStep{Op: OpEqual, Ref: ref[i-1], Hyp: hyp[j-1]})
			i, j = i-1, j-1
		case i > 0 && j > 0 && dist[i][j] == dist[i-1][j-1]+1:
			steps = append(steps, AlignmentStep{Op: OpSubstitute, Ref: ref[i-1], Hyp: hyp[j-1]})
			i, j = i-1, j-1
		case i > 0 && dist[i][j] == dist[i-1][j]+1:
			steps = append(steps, AlignmentStep{Op: OpDelete, Ref: ref[i-1]})
			i--
		default:
			steps = append(steps, AlignmentStep{Op: OpInsert, Hyp: hyp[j-1]})
			j--
		}
	}

	// 回溯得到的是逆序
	for l, r := 0, len(steps)-1; l < r; l, r = l+1, r-1 {
		steps[l], steps[r] = steps[r], steps[l]
	}
	return steps
}

// Compare 对齐两个词元序列并统计 S/D/I/H
func Compare(ref, hyp []string) Measures {
	m := Measures{RefLen: len(ref), HypLen: len(hyp)}
	for _, step := range Align(ref, hyp) {
		switch step.Op {
		case OpEqual:
			m.Hits++
		case OpSubstitute:
			m.Substitutions++
		case OpDelete:
			m.Deletions++
		case OpInsert:
			m.Insertions++
		}
	}
	return m
}

// Words 按空白切分文本
func Words(text string) []string {
	return strings.Fields(text)
}

// Chars 将文本拆为字符（保留空格）
func Chars(text string) []string {
	runes := []rune(text)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// Normalize 转小写并去除首尾空白
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CER 返回字符错误率，空格计入字符
func CER(reference, hypothesis string) (float64, error) {
	return Compare(Chars(reference), Chars(hypothesis)).ErrorRate()
}

// WER 返回词错误率
func WER(reference, hypothesis string) (float64, error) {
	return Compare(Words(reference), Words(hypothesis)).ErrorRate()
}
