package generator

import (
	"fmt"
	"strings"

	"updategen/internal/domain"
)

const stubExcerptMaxChars = 700

// stubMarkdown builds a deterministic, schema-correct document without
// touching the network. Byte-identical input and settings produce
// byte-identical output.
func stubMarkdown(req domain.GenerateRequest) string {
	excerpt := stubExcerpt(req.RawInput)
	metricsLikelyPresent := MetricsLikelyPresent(req.RawInput)

	header := fmt.Sprintf("# Weekly update (%s · %s · %s)",
		req.Settings.Audience, req.Settings.Length, req.Settings.Tone)

	if req.Settings.Audience == domain.AudienceExec {
		return strings.Join([]string{
			header,
			"",
			"## TL;DR",
			"- [stub] outcome + timeline summary",
			"",
			"## What changed",
			"- [stub] top changes (2-4 bullets)",
			"",
			"## Risks",
			"- [stub] risks / blockers (omit if none)",
			"",
			"## Asks",
			"- [stub] decisions needed / asks (omit if none)",
			"",
			"---",
			"### Notes excerpt",
			excerpt,
		}, "\n")
	}

	if req.Settings.Audience == domain.AudienceEngineering {
		return strings.Join([]string{
			header,
			"",
			"## Summary",
			"- [stub] 2-4 bullets summarizing the week",
			"",
			"## Shipped / Done",
			"- [stub]",
			"",
			"## In progress",
			"- [stub]",
			"",
			"## Blocked / Needs input",
			"- [stub] flag unknowns as (unknown) or [TBD]",
			"",
			"## Next up",
			"- [stub]",
			"",
			"## Links",
			"- [stub]",
			"",
			"---",
			"### Notes excerpt",
			excerpt,
		}, "\n")
	}

	lines := []string{
		header,
		"",
		"## TL;DR",
		"- [stub] 1-3 bullets",
		"",
		"## Progress / Wins",
		"- [stub]",
	}

	if metricsLikelyPresent {
		lines = append(lines,
			"",
			"## Metrics",
			"- [stub] metrics grounded in notes",
		)
	}

	lines = append(lines,
		"",
		"## Risks / Blockers",
		"- [stub]",
		"",
		"## Asks / Decisions needed",
		"- [stub]",
		"",
		"## Next up",
		"- [stub]",
		"",
		"## Links",
		"- [stub]",
		"",
		"---",
		"### Notes excerpt",
		excerpt,
	)

	return strings.Join(lines, "\n")
}

func stubExcerpt(rawInput string) string {
	trimmed := strings.TrimSpace(rawInput)

	runes := []rune(trimmed)
	if len(runes) <= stubExcerptMaxChars {
		return trimmed
	}

	return string(runes[:stubExcerptMaxChars]) + "\n…"
}
