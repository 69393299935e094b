// Package metrics 计算转写准确率指标（WER/CER/MER/WIL/WIP）并分析
// 参考文本与识别结果之间的逐词、逐字符差异。
//
// 准确率指标基于 Levenshtein 对齐（替换、删除、插入的代价均为 1）。
// 逐词、逐字符差异默认按位置对齐，也可选择 Levenshtein 对齐。
package metrics
