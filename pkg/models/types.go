package models

import "strings"

// TranscriptSegment 表示一个带时间范围的识别片段
type TranscriptSegment struct {
	Start float64 `json:"start"` // 开始时间（秒）
	End   float64 `json:"end"`   // 结束时间（秒）
	Text  string  `json:"text"`  // 识别出的文本内容
}

// Transcription 是转写服务的响应体
type Transcription struct {
	LanguageDetected string              `json:"language_detected"`
	Segments         []TranscriptSegment `json:"segments"`
}

// FullText 将所有片段文本以空格拼接
func (t *Transcription) FullText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// ErrorResponse 是服务端错误响应体
type ErrorResponse struct {
	Detail string `json:"detail"`
}
