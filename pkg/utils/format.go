package utils

import "strconv"

// FormatOptional 以三位小数格式化可选指标，缺失时返回 "-"
func FormatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

// ValueOrZero 返回可选指标的值，缺失时为 0
func ValueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
