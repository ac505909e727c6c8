package utils

import (
	"fmt"
	"strings"
)

// FormatShortfall 生成空缺描述，例如 "2 Supervisor(s), 1 Officer(s)"，
// 两项都为 0 时返回空字符串
func FormatShortfall(supervisorShortfall int32, officerShortfall int32) string {
	parts := make([]string, 0, 2)
	if supervisorShortfall > 0 {
		parts = append(parts, fmt.Sprintf("%d Supervisor(s)", supervisorShortfall))
	}
	if officerShortfall > 0 {
		parts = append(parts, fmt.Sprintf("%d Officer(s)", officerShortfall))
	}
	return strings.Join(parts, ", ")
}
