package generator

import (
	"regexp"
	"strings"
)

var (
	percentRe    = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
	percentileRe = regexp.MustCompile(`\bp(?:50|75|90|95|99)\b`)
	durationRe   = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:ms|millis(?:econds?)?|s|sec(?:onds?)?|m|min(?:utes?)?|h|hr(?:s)?|hours?)\b`)
	digitRe      = regexp.MustCompile(`\d`)
)

var metricKeywords = []string{
	"kpi",
	"metric",
	"metrics",
	"uptime",
	"sla",
	"slo",
	"latency",
	"throughput",
	"qps",
	"rps",
	"tps",
	"error rate",
	"conversion",
	"retention",
	"churn",
	"revenue",
	"arr",
	"mrr",
	"dau",
	"wau",
	"mau",
	"nps",
	"csat",
	"tickets",
	"incidents",
	"bugs",
	"crashes",
}

// MetricsLikelyPresent reports whether the raw notes appear to contain
// quantitative content: percentages, latency percentiles, durations, or a
// number near a metric keyword. The flag only gates the optional Metrics
// section; it never alters control flow.
func MetricsLikelyPresent(rawInput string) bool {
	text := strings.ToLower(rawInput)

	if percentRe.MatchString(text) {
		return true
	}
	if percentileRe.MatchString(text) {
		return true
	}
	if durationRe.MatchString(text) {
		return true
	}

	if !digitRe.MatchString(text) {
		return false
	}

	for _, keyword := range metricKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	return false
}
