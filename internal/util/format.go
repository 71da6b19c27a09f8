package util

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HumanizeID backup_strategy -> Backup Strategy
func HumanizeID(id string) string {
	// Caser 有状态，不能跨协程共享
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// Round1 保留一位小数
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatPercent 只在展示时取整
func FormatPercent(v float64) string {
	return strconv.FormatFloat(Round1(v), 'f', -1, 64) + "%"
}
