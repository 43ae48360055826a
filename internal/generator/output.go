package generator

import (
	"errors"
	"fmt"
	"strings"

	"updategen/internal/domain"
)

var errEmptyOutput = errors.New("output is empty after normalization")

func normalizeMarkdown(md string) string {
	return strings.TrimSpace(strings.ReplaceAll(md, "\r\n", "\n"))
}

// normalizeHeadingName strips emphasis markers, collapses whitespace, and
// drops a trailing colon so that lightly decorated headings still match the
// permitted set.
func normalizeHeadingName(name string) string {
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, "_", "")
	name = strings.Join(strings.Fields(name), " ")

	return strings.TrimSuffix(name, ":")
}

func extractH2Headings(markdown string) []string {
	var headings []string

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "## ") {
			continue
		}
		headings = append(headings, normalizeHeadingName(line[len("## "):]))
	}

	return headings
}

// capOutput normalizes the markdown and enforces the output character cap.
// Over-cap output is truncated, not failed; empty output is errEmptyOutput.
func capOutput(md string, maxChars int) (string, []string, error) {
	normalized := normalizeMarkdown(md)
	if normalized == "" {
		return "", nil, errEmptyOutput
	}

	runes := []rune(normalized)
	if len(runes) <= maxChars {
		return normalized, nil, nil
	}

	truncated := strings.TrimRight(string(runes[:maxChars]), " \t\n")

	return truncated, []string{fmt.Sprintf("output truncated to %d characters", maxChars)}, nil
}

// validateStructure compares the document's second-level headings against
// the audience's permitted set. Non-conformance is advisory: the result is
// warnings, never a rejection.
func validateStructure(
	markdown string,
	settings domain.Settings,
	metricsLikelyPresent bool,
) []string {
	var warnings []string

	headings := extractH2Headings(markdown)
	if len(headings) == 0 {
		return []string{`output is missing section headings (expected "##" sections)`}
	}

	allowed := make(map[string]struct{})
	for _, heading := range allowedHeadings(settings, metricsLikelyPresent) {
		allowed[heading] = struct{}{}
	}

	hasMetrics := false
	for _, heading := range headings {
		if heading == headingMetrics {
			hasMetrics = true
		}
		if _, ok := allowed[heading]; !ok {
			warnings = append(warnings, fmt.Sprintf("unexpected section heading: %q", heading))
		}
	}

	if settings.Audience == domain.AudienceCrossFunctional && !metricsLikelyPresent && hasMetrics {
		warnings = append(warnings, "metrics section included but no metrics were detected in the notes")
	}

	return warnings
}
