package metrics

import "sort"

// OtherLabel 是前 N 名之外的汇总桶名称
const OtherLabel = "Autres"

// TokenCount 是一个词元及其出现次数
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Counter 统计词元频率，同频时按首次出现的顺序排列
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter 创建空计数器
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add 计数加一
func (c *Counter) Add(token string) {
	if _, ok := c.counts[token]; !ok {
		c.order = append(c.order, token)
	}
	c.counts[token]++
}

// Count 返回某个词元的次数
func (c *Counter) Count(token string) int {
	return c.counts[token]
}

// Len 返回不同词元的数量
func (c *Counter) Len() int {
	return len(c.order)
}

// Total 返回所有计数之和
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// MostCommon 返回出现次数最多的 n 个词元，n <= 0 时返回全部
func (c *Counter) MostCommon(n int) []TokenCount {
	out := make([]TokenCount, 0, len(c.order))
	for _, token := range c.order {
		out = append(out, TokenCount{Token: token, Count: c.counts[token]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Breakdown 是前 N 名加 "Autres" 桶的频率分布
type Breakdown struct {
	Title string       `json:"title"`
	Total int          `json:"total"`
	Top   []TokenCount `json:"top"`
	Other int          `json:"other"`
}

// NewBreakdown 从计数器构建频率分布
func NewBreakdown(title string, c *Counter, n int) Breakdown {
	b := Breakdown{Title: title, Total: c.Total(), Top: c.MostCommon(n)}
	covered := 0
	for _, tc := range b.Top {
		covered += tc.Count
	}
	b.Other = b.Total - covered
	return b
}

// Empty 表示没有任何计数
func (b Breakdown) Empty() bool {
	return b.Total == 0
}

// Buckets 返回前 N 名加上 "Autres" 桶，用于绘图
func (b Breakdown) Buckets() []TokenCount {
	out := make([]TokenCount, 0, len(b.Top)+1)
	out = append(out, b.Top...)
	return append(out, TokenCount{Token: OtherLabel, Count: b.Other})
}
